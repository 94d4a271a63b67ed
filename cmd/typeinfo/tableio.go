package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/wippyai/typeinfo/portable"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatSCALE = "scale"
)

// formatOf picks a table format from a file extension, falling back to def.
func formatOf(path, def string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".scale", ".bin":
		return formatSCALE, nil
	}
	return checkFormat(def)
}

func checkFormat(f string) (string, error) {
	switch f {
	case formatJSON, formatYAML, formatSCALE:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: json, yaml, scale)", f)
}

func readTable(path, def string) (*portable.Registry, error) {
	format, err := formatOf(path, def)
	if err != nil {
		return nil, err
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return decodeTable(data, format)
}

func decodeTable(data []byte, format string) (*portable.Registry, error) {
	reg := new(portable.Registry)
	var err error
	switch format {
	case formatJSON:
		err = json.Unmarshal(data, reg)
	case formatYAML:
		err = yaml.Unmarshal(data, reg)
	case formatSCALE:
		err = reg.UnmarshalBinary(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s table: %w", format, err)
	}
	return reg, nil
}

func encodeTable(reg *portable.Registry, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(reg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		return yaml.Marshal(reg)
	case formatSCALE:
		return reg.MarshalBinary()
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// writeTable writes reg to path, or to w when path is empty or "-".
func writeTable(w io.Writer, path string, reg *portable.Registry, format string) error {
	data, err := encodeTable(reg, format)
	if err != nil {
		return err
	}
	return writeOutput(w, path, data)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
