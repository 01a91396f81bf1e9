// Halo is a voice assistant that listens for a wake phrase, forwards
// qualifying utterances to a conversation backend, and speaks the reply. It
// also screens incoming calls and triages incoming text messages.
//
// Usage:
//
//	halo [flags]
//	halo --config /path/to/halo.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	orchestration "github.com/mkovacic/halo-core/core"
	"github.com/mkovacic/halo-core/core/backend"
	"github.com/mkovacic/halo-core/core/reputation"
	sttdeepgram "github.com/mkovacic/halo-core/core/speechtotext/deepgram"
	ttsdeepgram "github.com/mkovacic/halo-core/core/texttospeech/deepgram"
	"github.com/mkovacic/halo-core/internal/config"
	"github.com/mkovacic/halo-core/ui"

	"github.com/mkovacic/halo-core/core/audio/miniaudio"
	"github.com/mkovacic/halo-core/core/audio/portaudio"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/halo.yaml)")
	headless := flag.Bool("headless", false, "run without the terminal UI")
	flag.Parse()

	if *showVersion {
		fmt.Printf("halo %s\n", version)
		os.Exit(0)
	}

	// Environment first so ${DEEPGRAM_API_KEY} and friends are available to
	// config and collaborators.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("halo starting", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *headless); err != nil {
		slog.Error("halo failed", "error", err)
		os.Exit(1)
	}

	slog.Info("halo stopped")
}

func run(ctx context.Context, cfg *config.Config, headless bool) error {
	backendClient := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithRequestTimeout(cfg.Backend.RequestTimeout))

	orchestratorOptions := []orchestration.OrchestratorOption{
		orchestration.WithBackendClient(backendClient),
		orchestration.WithReputationService(reputation.NewHeuristic()),
		orchestration.WithWakePhrase(cfg.Voice.WakePhrase),
		orchestration.WithRecordingWindow(cfg.Voice.RecordingWindow),
		orchestration.WithScreeningTimeout(cfg.Screening.Timeout),
		orchestration.WithBlockedTerms(cfg.Screening.BlockedTerms...),
		orchestration.WithUserID(cfg.Backend.UserID),
	}

	if _, ok := os.LookupEnv("DEEPGRAM_API_KEY"); ok {
		voice, err := ttsdeepgram.VoiceFromName(cfg.Voice.DeepgramVoice)
		if err != nil {
			return fmt.Errorf("invalid deepgram voice: %w", err)
		}
		speakClient, err := ttsdeepgram.NewSpeakClient(voice)
		if err != nil {
			return fmt.Errorf("failed to create speak client: %w", err)
		}

		orchestratorOptions = append(orchestratorOptions,
			orchestration.WithSpeechToTextClient(sttdeepgram.NewTranscriptionClient()),
			orchestration.WithTextToSpeechClient(speakClient),
		)
	} else {
		slog.Warn("DEEPGRAM_API_KEY not set, running without speech recognition and synthesis")
	}

	var playback interface{ SendAudio(audio []byte) error }

	switch cfg.Audio.Driver {
	case "miniaudio":
		audioClient, err := miniaudio.NewClient()
		if err != nil {
			return fmt.Errorf("failed to initialize miniaudio: %w", err)
		}
		defer audioClient.Close()
		playback = audioClient
		orchestratorOptions = append(orchestratorOptions, orchestration.WithAudioInput(audioClient))

	case "portaudio":
		audioClient, err := portaudio.NewClient(cfg.Audio.BufferSize)
		if err != nil {
			return fmt.Errorf("failed to initialize portaudio: %w", err)
		}
		defer audioClient.Close()
		playback = audioClient
		orchestratorOptions = append(orchestratorOptions, orchestration.WithAudioInput(audioClient))

	case "none":
		slog.Info("audio driver disabled, transcripts only")
	}

	o := orchestration.NewOrchestrator(orchestratorOptions...)
	defer o.Close()

	if headless {
		return runHeadless(ctx, o, playback)
	}
	return runUI(ctx, o, playback)
}

func runHeadless(ctx context.Context, o *orchestration.Orchestrator, playback interface{ SendAudio(audio []byte) error }) error {
	orchestrateOptions := []orchestration.OrchestrateOption{
		orchestration.WithStateChangedCallback(func(from, to orchestration.TurnState) {
			slog.Info("turn state changed", "from", string(from), "to", string(to))
		}),
		orchestration.WithTranscriptionCallback(func(transcript string) {
			slog.Info("heard", "transcript", transcript)
		}),
		orchestration.WithExchangeCallback(func(exchange orchestration.ConversationExchange) {
			slog.Info("exchange completed",
				"id", exchange.ID,
				"input", exchange.InputText,
				"reply", exchange.ReplyText,
				"fallback", exchange.Fallback)
		}),
		orchestration.WithRecordingStateChangedCallback(func(isRecording bool) {
			slog.Info("recording state changed", "recording", isRecording)
		}),
	}
	if playback != nil {
		orchestrateOptions = append(orchestrateOptions,
			orchestration.WithAssistantAudioCallback(func(audio []byte) {
				if err := playback.SendAudio(audio); err != nil {
					slog.Error("failed to play assistant audio", "error", err)
				}
			}),
		)
	}

	o.Orchestrate(ctx, orchestrateOptions...)

	<-ctx.Done()
	return nil
}

func runUI(ctx context.Context, o *orchestration.Orchestrator, playback interface{ SendAudio(audio []byte) error }) error {
	program := tea.NewProgram(ui.NewModel(), tea.WithContext(ctx))

	orchestrateOptions := []orchestration.OrchestrateOption{
		orchestration.WithStateChangedCallback(func(from, to orchestration.TurnState) {
			program.Send(ui.StateChangedMsg{From: from, To: to})
		}),
		orchestration.WithTranscriptionCallback(func(transcript string) {
			program.Send(ui.TranscriptMsg{Text: transcript})
		}),
		orchestration.WithInterimTranscriptionCallback(func(transcript string) {
			program.Send(ui.TranscriptMsg{Text: transcript, Interim: true})
		}),
		orchestration.WithExchangeCallback(func(exchange orchestration.ConversationExchange) {
			program.Send(ui.ExchangeMsg{Exchange: exchange})
		}),
		orchestration.WithRecordingStateChangedCallback(func(isRecording bool) {
			program.Send(ui.RecordingMsg{Active: isRecording})
		}),
		orchestration.WithCallScreenedCallback(func(call orchestration.CallEvent, decision orchestration.CallDecision) {
			program.Send(ui.CallScreenedMsg{Call: call, Decision: decision})
		}),
		orchestration.WithSMSTriagedCallback(func(sms orchestration.SMSEvent, action orchestration.SMSAction) {
			program.Send(ui.SMSTriagedMsg{SMS: sms, Action: action})
		}),
	}
	if playback != nil {
		orchestrateOptions = append(orchestrateOptions,
			orchestration.WithAssistantAudioCallback(func(audio []byte) {
				if err := playback.SendAudio(audio); err != nil {
					slog.Error("failed to play assistant audio", "error", err)
				}
			}),
		)
	}

	o.Orchestrate(ctx, orchestrateOptions...)

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}
	return nil
}
