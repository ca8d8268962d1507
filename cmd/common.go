package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bettersave/pkg/logger"
	"bettersave/pkg/naming"
	"bettersave/pkg/profiles"
	"bettersave/pkg/usecase"
)

// stdinItemName labels payloads read from standard input.
const stdinItemName = "stdin"

// stdinDefaultBase is used when saving stdin without an explicit base.
const stdinDefaultBase = "file"

var errProfileWithoutConfig = errors.New("--profile requires --config")

func newUseCaseService() *usecase.Service {
	return usecase.New(usecase.Options{Logger: commandLogger()})
}

func commandLogger() *logger.Logger {
	if !verbose {
		return logger.Nop()
	}

	log, err := logger.New(logger.Config{Level: "debug", Development: true})
	if err != nil {
		return logger.Default()
	}

	return log
}

// namingConfigFromFlags assembles the naming config, either from the selected
// profile or from the individual naming flags.
func namingConfigFromFlags() (naming.Config, error) {
	if profileName != "" {
		if configPath == "" {
			return naming.Config{}, errProfileWithoutConfig
		}

		file, err := profiles.Load(configPath)
		if err != nil {
			return naming.Config{}, err
		}

		return file.Resolve(profileName)
	}

	return naming.Config{
		Pattern:        pattern,
		Base:           base,
		Extension:      strings.TrimPrefix(extension, "."),
		CounterStart:   counterStart,
		CounterPadding: counterPadding,
	}, nil
}

// buildSaveItems turns the input file arguments (or stdin when empty) into
// save items. An empty base or extension is derived per input file from its
// name; stdin falls back to the default base.
func buildSaveItems(cfg naming.Config, inputs []string, overwriteItems bool) ([]usecase.SaveItem, error) {
	if len(inputs) == 0 {
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		itemCfg := cfg
		if itemCfg.Base == "" {
			itemCfg.Base = stdinDefaultBase
		}

		return []usecase.SaveItem{{
			Name:      stdinItemName,
			Config:    itemCfg,
			Payload:   payload,
			Overwrite: overwriteItems,
		}}, nil
	}

	items := make([]usecase.SaveItem, 0, len(inputs))
	for _, input := range inputs {
		payload, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read input %s: %w", input, err)
		}

		itemCfg := cfg
		name := filepath.Base(input)
		ext := filepath.Ext(name)

		if itemCfg.Base == "" {
			itemCfg.Base = strings.TrimSuffix(name, ext)
		}
		if itemCfg.Extension == "" {
			itemCfg.Extension = strings.TrimPrefix(ext, ".")
		}

		items = append(items, usecase.SaveItem{
			Name:      input,
			Config:    itemCfg,
			Payload:   payload,
			Overwrite: overwriteItems,
		})
	}

	return items, nil
}

func printCommandHeader(command, targetDir string) {
	fmt.Printf("Command: %s\n", command)
	fmt.Printf("Destination: %s\n", targetDir)
}

func printSummary(lines ...string) {
	fmt.Println("=== Summary ===")
	for _, line := range lines {
		fmt.Println(line)
	}
}

func printSaveOperation(op usecase.SaveOperation) {
	switch {
	case op.Error != nil:
		fmt.Printf("ERROR: %s: %v\n", op.Name, op.Error)
	case op.Overwrite:
		fmt.Printf("OVERWRITE: %s\n", op.Name)
		fmt.Printf("       TO: %s\n", op.Path)
	default:
		fmt.Printf("SAVE: %s\n", op.Name)
		fmt.Printf("  TO: %s\n", op.Path)
	}

	if op.JournalError != nil {
		fmt.Printf("WARNING: %s: saved but not journaled: %v\n", op.Name, op.JournalError)
	}
}
