package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/ericmiguel/pytyper/internal/builders"
	"github.com/ericmiguel/pytyper/internal/config"
	"github.com/ericmiguel/pytyper/internal/errors"
	"github.com/ericmiguel/pytyper/internal/inference"
	"github.com/ericmiguel/pytyper/internal/models"
	"github.com/ericmiguel/pytyper/internal/parser"
	"github.com/ericmiguel/pytyper/internal/renderer"
	"github.com/ericmiguel/pytyper/internal/schema"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	URL         string `help:"URL to fetch JSON from." short:"u"`
	Schema      bool   `help:"Treat the input as a JSON Schema document instead of example data." short:"s"`
	Style       string `help:"Output style: typed_dict, dataclass, pydantic, namedtuple or attrs." short:"t"`
	Name        string `help:"Name for the root class." short:"n"`
	Output      string `help:"Path to output Python file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to a YAML config file." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Version information
const (
	Version = "0.1.0"
)

var log = logrus.New()

func main() {
	cliParser := kong.Must(&CLI,
		kong.Name("pytyper"),
		kong.Description("A tool to convert JSON to Python data-structure declarations"),
		kong.UsageOnError(),
	)

	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("pytyper version %s\n", Version)
		return
	}

	log.SetOutput(os.Stderr)
	if CLI.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: pytyper --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.NewInputError("failed to load configuration", err)
	}
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	style := CLI.Style
	if style == "" {
		style = cfg.Style
	}
	if style == "" {
		return errors.NewStyleError(
			fmt.Sprintf("no output style selected, use -t with one of %v", builders.Styles()),
			errors.ErrUnknownStyle,
		)
	}

	// Resolve the builder before any inference work is done, so an unknown
	// style fails fast.
	builder, err := builders.ForStyle(style)
	if err != nil {
		return err
	}
	log.WithField("style", style).Debug("selected builder")

	rootName := CLI.Name
	if rootName == "" {
		rootName = cfg.RootName
	}

	var root *models.Structure
	var registry *models.Registry
	if CLI.Schema {
		data, err := readRawInput()
		if err != nil {
			return err
		}
		root, registry, err = schema.Convert(data, rootName)
		if err != nil {
			return err
		}
	} else {
		ir, err := parseInput()
		if err != nil {
			return err
		}
		engine := inference.NewEngine()
		engine.SetNaming(cfg.Naming)
		root, err = engine.Infer(ir, rootName)
		if err != nil {
			return err
		}
		registry = engine.Registry()
	}
	log.WithFields(logrus.Fields{
		"root":       root.Name,
		"structures": registry.Len(),
	}).Debug("inferred type model")

	code, err := renderer.Render(root.Name, registry, builder)
	if err != nil {
		return err
	}

	output := CLI.Output
	if output == "" {
		output = cfg.Output
	}
	return writeOutput(code, output)
}

// loadConfig loads the explicit config file, or one discovered in the
// working directory, or plain defaults.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return config.NewConfig(), nil
	}
	log.WithField("path", path).Debug("loading config file")
	return config.LoadConfig(path)
}

// parseInput reads example JSON from file, URL or stdin
func parseInput() (models.IntermediateRepresentation, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}
	if CLI.URL != "" {
		return parser.FetchURL(CLI.URL)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// readRawInput reads the input bytes without JSON interpretation, for the
// JSON Schema input mode.
func readRawInput() ([]byte, error) {
	if CLI.Input != "" {
		data, err := os.ReadFile(CLI.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewInputError(
					fmt.Sprintf("file '%s' not found", CLI.Input), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(
				fmt.Sprintf("failed to read file '%s'", CLI.Input), err)
		}
		return data, nil
	}
	if CLI.URL != "" {
		resp, err := http.Get(CLI.URL)
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to fetch '%s'", CLI.URL), err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing response body: %v\n", err)
			}
		}()
		if resp.StatusCode != http.StatusOK {
			return nil, errors.NewInputError(
				fmt.Sprintf("unexpected status %s fetching '%s'", resp.Status, CLI.URL), nil)
		}
		return io.ReadAll(resp.Body)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// writeOutput writes code to file or stdout
func writeOutput(code string, output string) error {
	if output != "" {
		err := os.WriteFile(output, []byte(code), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", output), err)
		}
		fmt.Fprintf(os.Stderr, "Generated Python code written to %s\n", output)
		return nil
	}

	_, err := fmt.Println(strings.TrimSpace(code))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.IntermediateRepresentation, error) {
	fmt.Fprintln(os.Stderr, "Pytyper Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			jsonBuilder.WriteString(line)
			break
		}
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
