//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "babycards"
	mainPkg = "./cmd/babycards"
)

// Default target when running plain `mage`
var Default = Build

// Build compiles the babycards binary. go-sqlite3 needs cgo.
func Build() error {
	fmt.Println("Building", binary)
	env := map[string]string{"CGO_ENABLED": "1"}
	return sh.RunWith(env, "go", "build", "-o", binary, mainPkg)
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Integration runs the tests that call the real image APIs
func Integration() error {
	env := map[string]string{"BABYCARDS_INTEGRATION": "1"}
	return sh.RunWithV(env, "go", "test", "-count=1", "./internal/image/...", "./internal/models/...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the unit tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install copies the binary to ~/go/bin
func Install() error {
	mg.Deps(Build)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dst := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	fmt.Println("Installing to", dst)
	return sh.Copy(dst, binary)
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
