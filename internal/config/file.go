package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadFile reads a TOML options file on top of Defaults
func LoadFile(path string) (Options, error) {
	opts := Defaults()
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, fmt.Errorf("decode %s: %w", path, err)
	}
	warnUndecoded(path, md)
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes TOML text on top of Defaults
func Parse(text string) (Options, error) {
	opts := Defaults()
	md, err := toml.Decode(text, &opts)
	if err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	warnUndecoded("<inline>", md)
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Write encodes opts as TOML
func Write(w io.Writer, opts Options) error {
	if err := toml.NewEncoder(w).Encode(opts); err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return nil
}

// WriteFile stores opts at path, creating or truncating the file
func WriteFile(path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func warnUndecoded(source string, md toml.MetaData) {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return
	}
	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	log.Printf("Config: ignoring unknown keys in %s: %s", source, strings.Join(keys, ", "))
}
