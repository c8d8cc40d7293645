package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MordecaiM24/meridian/internal/api"
	"github.com/MordecaiM24/meridian/internal/app"
	"github.com/MordecaiM24/meridian/internal/config"
	"github.com/MordecaiM24/meridian/internal/library"
)

func main() {
	var (
		apiURL      string
		libraryPath string
		whisperPort int
		whisperHost string
	)

	flag.StringVar(&apiURL, "api", config.DefaultAPIURL, "Base URL of the transcription service")
	flag.StringVar(&libraryPath, "library", library.DefaultPath(), "Path to the experiences JSON file")
	flag.IntVar(&whisperPort, "port", config.DefaultWhisperPort, "Whisper server port")
	flag.StringVar(&whisperHost, "host", config.DefaultWhisperHost, "Whisper server host")
	flag.Parse()

	cfg, err := config.Loader{}.Load(config.Config{
		APIURL:      apiURL,
		LibraryPath: libraryPath,
		WhisperPort: whisperPort,
		WhisperHost: whisperHost,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "meridian: %v\n", err)
		os.Exit(2)
	}

	client := api.New(cfg.APIURL)
	lib := library.New(client, library.NewStore(cfg.LibraryPath))
	if err := lib.Hydrate(); err != nil {
		fmt.Fprintf(os.Stderr, "meridian: loading library: %v\n", err)
		os.Exit(1)
	}

	program := tea.NewProgram(app.New(lib, client, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "meridian: %v\n", err)
		os.Exit(1)
	}
}
