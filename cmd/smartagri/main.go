// SmartAgri is a terminal companion for farmers: pick a language, log in,
// and browse the dashboard and soil-health report by keyboard or voice.
//
// Usage:
//
//	smartagri [-log-level verbose] [-lang hi] [-voice=false] [-no-ai]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/smartagri/internal/auth"
	"github.com/hammamikhairi/smartagri/internal/content"
	"github.com/hammamikhairi/smartagri/internal/conversation"
	"github.com/hammamikhairi/smartagri/internal/display"
	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/gpt"
	"github.com/hammamikhairi/smartagri/internal/locale"
	"github.com/hammamikhairi/smartagri/internal/logger"
	"github.com/hammamikhairi/smartagri/internal/notify"
	"github.com/hammamikhairi/smartagri/internal/router"
	"github.com/hammamikhairi/smartagri/internal/speech"
	"github.com/hammamikhairi/smartagri/internal/storage"
	"github.com/hammamikhairi/smartagri/internal/voice"
)

func main() {
	_ = godotenv.Load()

	defaultState, err := storage.DefaultPath()
	if err != nil {
		defaultState = ""
	}

	levelFlag := flag.String("log-level", "normal", "log level: off, normal or verbose")
	verbose := flag.Bool("verbose", false, "shorthand for -log-level=verbose")
	quiet := flag.Bool("quiet", false, "shorthand for -log-level=off")
	logFile := flag.String("log-file", ".smartagri-logs/smartagri.log", "file to write logs to (use \"stderr\" to log to console)")
	stateFile := flag.String("state-file", defaultState, "file for saved language and token (empty keeps them in memory)")
	langFlag := flag.String("lang", "", "preselect the UI language (en, hi, te) and skip the language step")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	diskCache := flag.Bool("disk-cache", true, "persist TTS audio cache to disk (reads from disk even when false)")
	cacheDir := flag.String("cache-dir", ".smartagri-cache", "directory for persistent TTS audio cache")
	cacheEntries := flag.Int("cache-entries", 256, "maximum TTS clips kept in memory")
	ttsTimeout := flag.Duration("tts-timeout", 30*time.Second, "timeout for one Azure TTS request")
	voiceHI := flag.String("tts-voice-hi", "", "Azure neural voice for Hindi (default "+speech.Voices["hi-IN"]+")")
	voiceTE := flag.String("tts-voice-te", "", "Azure neural voice for Telugu (default "+speech.Voices["te-IN"]+")")
	voiceFlag := flag.Bool("voice", true, "enable voice input via local Whisper STT")
	whisperBin := flag.String("whisper-bin", "whisper-cli", "path to the whisper-cpp CLI binary")
	whisperModel := flag.String("whisper-model", "bin/ggml-small.bin", "path to the Whisper GGML model file")
	modelHI := flag.String("whisper-model-hi", "", "optional Whisper model used for Hindi")
	modelTE := flag.String("whisper-model-te", "", "optional Whisper model used for Telugu")
	whisperTmp := flag.String("whisper-tmp", "", "directory for temporary recordings (default system temp)")
	chunkSecs := flag.Int("chunk-secs", 2, "seconds per voice recording chunk")
	listenTimeout := flag.Duration("listen-timeout", 15*time.Second, "maximum length of one listening session")
	desktopNotify := flag.Bool("desktop-notify", false, "also show notifications on the desktop")
	loginDelay := flag.Duration("login-delay", time.Second, "simulated token validation latency")
	noAI := flag.Bool("no-ai", false, "disable the model fallback for unrecognised commands even if GPT keys are set")
	aiModel := flag.String("ai-model", "", "model name for non-Azure chat endpoints")
	aiTimeout := flag.Duration("ai-timeout", 10*time.Second, "timeout for one command classification request")
	flag.Parse()

	// Configure logger.
	logLevel, err := logger.ParseLevel(*levelFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using normal)\n", err)
	}
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the TUI stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package (used by third-party libs like
	// the whisper transcriber) to the same output.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Preferences.
	var store domain.PreferenceStore
	if *stateFile == "" {
		store = storage.NewMemoryStore(log)
	} else if fs, err := storage.NewFileStore(*stateFile, log); err != nil {
		log.Error("preferences unavailable, using memory: %v", err)
		store = storage.NewMemoryStore(log)
	} else {
		store = fs
		log.Info("preferences at %s", fs.Path())
	}

	sel := locale.NewSelector(locale.EN)
	validator := auth.NewValidator(log, auth.WithDelay(*loginDelay))
	rt := router.New(store, validator, sel, log)

	var app *cliApp
	ui := display.NewUI(func() display.Status { return app.status() })

	// Notifications: terminal toasts, optionally mirrored to the desktop.
	toasts := notify.Multi{notify.NewToaster(log, ui.Printf)}
	if *desktopNotify {
		toasts = append(toasts, notify.NewDesktop(locale.T(string(locale.EN), "app_name"), log))
	}
	var activeNotifier domain.Notifier = toasts

	// Text-to-speech.
	var synth domain.Synthesizer = speech.NewNoOp(log)
	hush := func() {}

	azureKey := os.Getenv(speech.EnvAzureSpeechKey)
	azureRegion := os.Getenv(speech.EnvAzureSpeechRegion)

	if azureKey != "" && azureRegion != "" && !*noSpeech {
		ttsOpts := []speech.AzureOption{speech.WithHTTPTimeout(*ttsTimeout)}
		if *voiceHI != "" {
			ttsOpts = append(ttsOpts, speech.WithVoiceFor(locale.Code(string(locale.HI)), *voiceHI))
		}
		if *voiceTE != "" {
			ttsOpts = append(ttsOpts, speech.WithVoiceFor(locale.Code(string(locale.TE)), *voiceTE))
		}
		ttsClient := speech.NewAzureClient(azureKey, azureRegion, log, ttsOpts...)

		player, err := speech.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
		} else {
			mouth := speech.NewMouth(ttsClient, player, log,
				speech.WithCacheDir(*cacheDir),
				speech.WithDiskWrite(*diskCache),
				speech.WithCacheEntries(*cacheEntries),
			)
			mouth.Start(ctx)
			prefetch := func(lang string) {
				mouth.Prefetch(ctx, locale.Code(lang), prefetchPhrases(lang)...)
			}
			prefetch(sel.Language())
			defer sel.OnChange(prefetch)()

			synth = mouth
			hush = mouth.Interrupt
			activeNotifier = speech.NewSpeakingNotifier(toasts, mouth, sel)
			log.Info("TTS enabled (region=%s)", azureRegion)
		}
	} else if !*noSpeech {
		log.Info("TTS disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
	}

	// Speech recognition.
	capability := voice.Unsupported("disabled with -voice=false")
	if *voiceFlag {
		opts := []speech.WhisperOption{
			speech.WithChunkDuration(time.Duration(*chunkSecs) * time.Second),
			speech.WithListenTimeout(*listenTimeout),
		}
		if *whisperTmp != "" {
			opts = append(opts, speech.WithTempDir(*whisperTmp))
		}
		if *modelHI != "" {
			opts = append(opts, speech.WithLanguageModel(locale.Code(string(locale.HI)), *modelHI))
		}
		if *modelTE != "" {
			opts = append(opts, speech.WithLanguageModel(locale.Code(string(locale.TE)), *modelTE))
		}
		rec := speech.NewWhisperRecognizer(*whisperBin, *whisperModel, log, opts...)
		if err := rec.Check(); err != nil {
			capability = voice.Unsupported(err.Error())
		} else {
			capability = voice.Supported(rec)
			log.Info("voice input enabled (bin=%s, model=%s, chunk=%ds)", *whisperBin, *whisperModel, *chunkSecs)
		}
	}

	// Command parsing, with a model fallback when GPT credentials exist.
	keywords := conversation.NewKeywordParser(log)
	var parser domain.CommandParser = keywords

	gptKey := os.Getenv("GPT_CHAT_KEY")
	gptEndpoint := os.Getenv("GPT_CHAT_ENDPOINT")

	if gptKey != "" && gptEndpoint != "" && !*noAI {
		client := gpt.NewClient(gptEndpoint, gptKey, log,
			gpt.WithModel(*aiModel),
			gpt.WithTimeout(*aiTimeout),
		)
		parser = gpt.NewClassifier(keywords, client, log)
		log.Info("model command fallback enabled")
	} else if !*noAI {
		log.Info("model fallback disabled: set GPT_CHAT_KEY and GPT_CHAT_ENDPOINT env vars to enable")
	}

	session := voice.New(capability, sel, log, voice.WithSynthesizer(synth))
	defer session.Close()

	app = &cliApp{
		router:    rt,
		lang:      sel,
		voice:     session,
		parser:    parser,
		keywords:  keywords,
		notifier:  activeNotifier,
		hush:      hush,
		ui:        ui,
		log:       log,
		soil:      content.DemoSoilReport(),
		preselect: *langFlag,
	}

	fmt.Println(display.RenderBanner(bannerSubtitle()))
	if session.IsSupported() {
		fmt.Println(display.BannerStyle.Render("  Press Ctrl+V or type 'listen' to talk. Type 'help' for commands."))
	} else {
		fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	}
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal. Blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// bannerSubtitle shows the app name in every supported language.
func bannerSubtitle() string {
	var s string
	for i, l := range locale.Supported() {
		if i > 0 {
			s += "  ·  "
		}
		s += locale.T(string(l), "app_name")
	}
	return s
}

// prefetchPhrases are spoken often enough to warm the TTS cache for.
func prefetchPhrases(lang string) []string {
	return []string{
		locale.T(lang, "login_success"),
		locale.T(lang, "welcome_back"),
		locale.T(lang, "invalid_token") + ". " + locale.T(lang, "token_rejected"),
		content.DashboardNarration(lang),
	}
}
