package cartridge

import (
	"fmt"
	"os"
	"path/filepath"
)

var validExtensions = map[string]bool{
	".gb":  true,
	".gbc": true,
	".rom": true,
}

// LoadFromFile reads a ROM off disk and builds a Cartridge from it.
func LoadFromFile(path string) (*Cartridge, error) {
	if ext := filepath.Ext(path); !validExtensions[ext] {
		return nil, fmt.Errorf("cartridge: unrecognized ROM extension %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: reading %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes builds a Cartridge from an in-memory ROM image, skipping the
// file-extension check — the path test harnesses and in-memory fixtures use.
func LoadFromBytes(data []byte) (*Cartridge, error) {
	return New(data)
}
