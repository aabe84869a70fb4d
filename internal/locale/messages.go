package locale

// Message tables keyed by UI language. English is the fallback for keys
// missing from the other tables.
var messages = map[Language]map[string]string{
	EN: {
		"app_name":               "Smart Agriculture",
		"choose_language":        "Choose your language",
		"enter_token":            "Enter your access token",
		"login":                  "Login",
		"logging_in":             "Logging in...",
		"welcome_back":           "Welcome back",
		"invalid_token":          "Invalid token",
		"token_required":         "Please enter your access token",
		"token_rejected":         "Please check your access token and try again",
		"login_success":          "Login successful",
		"demo_token_hint":        "Type 'demo' to use the demo token",
		"create_account":         "Create account",
		"dashboard":              "Dashboard",
		"my_soil":                "My Soil",
		"weather":                "Weather",
		"crops":                  "My Crops",
		"market":                 "Market Prices",
		"soil_health":            "Soil Health",
		"back":                   "Back",
		"coming_soon":            "Coming soon",
		"listening":              "Listening...",
		"voice_off":              "Voice ready",
		"voice_unsupported":      "Voice input not available",
		"heard":                  "Heard",
		"not_understood":         "Sorry, I did not understand",
		"logged_out":             "Logged out",
		"language_changed":       "Language changed",
		"status_low":             "Low",
		"status_good":            "Good",
		"status_high":            "High",
		"ph":                     "pH",
		"moisture":               "Moisture",
		"nitrogen":               "Nitrogen (N)",
		"phosphorus":             "Phosphorus (P)",
		"potassium":              "Potassium (K)",
		"organic_carbon":         "Organic carbon",
		"advice":                 "Advice",
		"advice_ph_low":          "Soil is acidic. Apply agricultural lime before sowing.",
		"advice_ph_high":         "Soil is alkaline. Add gypsum or organic compost.",
		"advice_moisture_low":    "Moisture is low. Irrigate within the next two days.",
		"advice_moisture_high":   "Soil is waterlogged. Improve drainage and pause irrigation.",
		"advice_nitrogen_low":    "Nitrogen is low. Apply urea in split doses.",
		"advice_nitrogen_high":   "Nitrogen is high. Skip the next nitrogen dose.",
		"advice_phosphorus_low":  "Phosphorus is low. Apply DAP or single super phosphate.",
		"advice_phosphorus_high": "Phosphorus is high. Avoid phosphate fertilizer this season.",
		"advice_potassium_low":   "Potassium is low. Apply muriate of potash.",
		"advice_potassium_high":  "Potassium is high. Reduce potash fertilizer.",
		"advice_carbon_low":      "Organic carbon is low. Add farmyard manure or green manure.",
		"advice_carbon_high":     "Organic carbon is high. Keep the current practice.",
		"help":                   "Commands: 1-4 or soil, back, read, listen, stop, language <name>, logout, quit. Ctrl+V talks.",
	},
	HI: {
		"app_name":               "स्मार्ट कृषि",
		"choose_language":        "अपनी भाषा चुनें",
		"enter_token":            "अपना एक्सेस टोकन दर्ज करें",
		"login":                  "लॉगिन",
		"logging_in":             "लॉगिन हो रहा है...",
		"welcome_back":           "वापसी पर स्वागत है",
		"invalid_token":          "अमान्य टोकन",
		"token_required":         "कृपया अपना एक्सेस टोकन दर्ज करें",
		"token_rejected":         "कृपया अपना टोकन जांचें और फिर से प्रयास करें",
		"login_success":          "लॉगिन सफल",
		"create_account":         "खाता बनाएं",
		"dashboard":              "डैशबोर्ड",
		"my_soil":                "मेरी मिट्टी",
		"weather":                "मौसम",
		"crops":                  "मेरी फसलें",
		"market":                 "मंडी भाव",
		"soil_health":            "मिट्टी का स्वास्थ्य",
		"back":                   "वापस",
		"coming_soon":            "जल्द आ रहा है",
		"listening":              "सुन रहा हूँ...",
		"voice_off":              "आवाज़ तैयार",
		"voice_unsupported":      "आवाज़ इनपुट उपलब्ध नहीं है",
		"heard":                  "सुना",
		"not_understood":         "माफ़ कीजिए, मैं समझ नहीं पाया",
		"logged_out":             "लॉगआउट हो गया",
		"language_changed":       "भाषा बदल दी गई",
		"status_low":             "कम",
		"status_good":            "अच्छा",
		"status_high":            "ज़्यादा",
		"ph":                     "पीएच",
		"moisture":               "नमी",
		"nitrogen":               "नाइट्रोजन (N)",
		"phosphorus":             "फॉस्फोरस (P)",
		"potassium":              "पोटैशियम (K)",
		"organic_carbon":         "जैविक कार्बन",
		"advice":                 "सलाह",
		"advice_ph_low":          "मिट्टी अम्लीय है। बुवाई से पहले चूना डालें।",
		"advice_ph_high":         "मिट्टी क्षारीय है। जिप्सम या जैविक खाद डालें।",
		"advice_moisture_low":    "नमी कम है। अगले दो दिनों में सिंचाई करें।",
		"advice_moisture_high":   "खेत में पानी भरा है। जल निकासी सुधारें और सिंचाई रोकें।",
		"advice_nitrogen_low":    "नाइट्रोजन कम है। यूरिया को कई हिस्सों में डालें।",
		"advice_nitrogen_high":   "नाइट्रोजन ज़्यादा है। अगली नाइट्रोजन खुराक छोड़ दें।",
		"advice_phosphorus_low":  "फॉस्फोरस कम है। डीएपी या सिंगल सुपर फॉस्फेट डालें।",
		"advice_phosphorus_high": "फॉस्फोरस ज़्यादा है। इस मौसम फॉस्फेट खाद न डालें।",
		"advice_potassium_low":   "पोटैशियम कम है। म्यूरेट ऑफ पोटाश डालें।",
		"advice_potassium_high":  "पोटैशियम ज़्यादा है। पोटाश खाद कम करें।",
		"advice_carbon_low":      "जैविक कार्बन कम है। गोबर की खाद या हरी खाद डालें।",
		"advice_carbon_high":     "जैविक कार्बन ज़्यादा है। यही तरीका जारी रखें।",
	},
	TE: {
		"app_name":               "స్మార్ట్ వ్యవసాయం",
		"choose_language":        "మీ భాషను ఎంచుకోండి",
		"enter_token":            "మీ యాక్సెస్ టోకెన్ నమోదు చేయండి",
		"login":                  "లాగిన్",
		"logging_in":             "లాగిన్ అవుతోంది...",
		"welcome_back":           "తిరిగి స్వాగతం",
		"invalid_token":          "చెల్లని టోకెన్",
		"token_required":         "దయచేసి మీ యాక్సెస్ టోకెన్ నమోదు చేయండి",
		"token_rejected":         "దయచేసి మీ టోకెన్ తనిఖీ చేసి మళ్ళీ ప్రయత్నించండి",
		"login_success":          "లాగిన్ విజయవంతం",
		"create_account":         "ఖాతా సృష్టించండి",
		"dashboard":              "డ్యాష్‌బోర్డ్",
		"my_soil":                "నా నేల",
		"weather":                "వాతావరణం",
		"crops":                  "నా పంటలు",
		"market":                 "మార్కెట్ ధరలు",
		"soil_health":            "నేల ఆరోగ్యం",
		"back":                   "వెనక్కి",
		"coming_soon":            "త్వరలో వస్తుంది",
		"listening":              "వింటున్నాను...",
		"voice_off":              "వాయిస్ సిద్ధం",
		"voice_unsupported":      "వాయిస్ ఇన్‌పుట్ అందుబాటులో లేదు",
		"heard":                  "విన్నది",
		"not_understood":         "క్షమించండి, నాకు అర్థం కాలేదు",
		"logged_out":             "లాగౌట్ అయ్యారు",
		"language_changed":       "భాష మార్చబడింది",
		"status_low":             "తక్కువ",
		"status_good":            "బాగుంది",
		"status_high":            "ఎక్కువ",
		"ph":                     "పీహెచ్",
		"moisture":               "తేమ",
		"nitrogen":               "నత్రజని (N)",
		"phosphorus":             "భాస్వరం (P)",
		"potassium":              "పొటాషియం (K)",
		"organic_carbon":         "సేంద్రీయ కార్బన్",
		"advice":                 "సలహా",
		"advice_ph_low":          "నేల ఆమ్లంగా ఉంది. విత్తే ముందు సున్నం వేయండి.",
		"advice_ph_high":         "నేల క్షారంగా ఉంది. జిప్సం లేదా సేంద్రీయ ఎరువు వేయండి.",
		"advice_moisture_low":    "తేమ తక్కువగా ఉంది. రెండు రోజుల్లో నీరు పెట్టండి.",
		"advice_moisture_high":   "పొలంలో నీరు నిలిచింది. నీటి పారుదల మెరుగుపరచండి.",
		"advice_nitrogen_low":    "నత్రజని తక్కువగా ఉంది. యూరియాను విడతలుగా వేయండి.",
		"advice_nitrogen_high":   "నత్రజని ఎక్కువగా ఉంది. తదుపరి నత్రజని మోతాదు మానేయండి.",
		"advice_phosphorus_low":  "భాస్వరం తక్కువగా ఉంది. డీఏపీ వేయండి.",
		"advice_phosphorus_high": "భాస్వరం ఎక్కువగా ఉంది. ఈ సీజన్ ఫాస్ఫేట్ ఎరువు వద్దు.",
		"advice_potassium_low":   "పొటాషియం తక్కువగా ఉంది. పొటాష్ వేయండి.",
		"advice_potassium_high":  "పొటాషియం ఎక్కువగా ఉంది. పొటాష్ ఎరువు తగ్గించండి.",
		"advice_carbon_low":      "సేంద్రీయ కార్బన్ తక్కువగా ఉంది. పశువుల ఎరువు వేయండి.",
		"advice_carbon_high":     "సేంద్రీయ కార్బన్ ఎక్కువగా ఉంది. ఇదే పద్ధతి కొనసాగించండి.",
	},
}

// T returns the message for key in lang, falling back to English and
// then to the key itself.
func T(lang, key string) string {
	if m, ok := messages[Language(lang)]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[EN][key]; ok {
		return s
	}
	return key
}
