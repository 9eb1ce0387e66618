//go:build stave

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/sacr"

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// All runs lint and test, then builds.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles the sacr binary with version information. It links
// mattn/go-sqlite3, so cgo must be enabled.
func Build() error {
	st.Deps(Init)

	rebuild, err := target.Glob(binary, "**/*.go", "**/*.sql", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Println("sacr is up to date")
		}
		return nil
	}

	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", binary, "./cmd/sacr")
}

func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")

	return fmt.Sprintf(
		"-X main.Version=%s -X main.Commit=%s -X main.BuildDate=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		time.Now().UTC().Format(time.RFC3339),
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode.
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "./...")
}

// TestModel runs the ONNX-backed tests. SACR_TEST_MODEL and
// SACR_TEST_TOKENIZER must point at a SaT model and its tokenizer.
func TestModel() error {
	for _, key := range []string{"SACR_TEST_MODEL", "SACR_TEST_TOKENIZER"} {
		if os.Getenv(key) == "" {
			return fmt.Errorf("%s is not set", key)
		}
	}
	return sh.RunV("go", "test", "-v", "-run", "Neural|Session", "./segment/...", "./inference/...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts and the default database.
func Clean() error {
	for _, a := range []string{"bin/", "sacr.db", "coverage.out", "coverage.html"} {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds and copies sacr to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	dst := bin + "/sacr"
	if runtime.GOOS == "windows" {
		dst += ".exe"
	}
	if err := sh.Copy(dst, binary); err != nil {
		return fmt.Errorf("installing sacr: %w", err)
	}
	if st.Verbose() {
		fmt.Printf("Installed sacr to %s\n", dst)
	}
	return nil
}

// Corpus namespace for working with an annotated corpus directory.
type Corpus st.Namespace

func corpusDir() string {
	if dir := os.Getenv("SACR_CORPUS"); dir != "" {
		return dir
	}
	return "testdata/corpus"
}

// Import annotates $SACR_CORPUS (default testdata/corpus) into the database.
func (Corpus) Import() error {
	st.Deps(Build)
	return sh.RunV("./"+binary, "import", corpusDir())
}

// Export writes the stored corpus as knowledge-base JSONL to corpus.jsonl.
func (Corpus) Export() error {
	st.Deps(Build)
	return sh.RunV("./"+binary, "export", "--format", "jsonl", "--shape", "kb", "-o", "corpus.jsonl")
}

// Proto namespace for protobuf-related targets.
type Proto st.Namespace

// Generate recompiles the embedded SentencePiece descriptor set from its
// .proto file.
func (Proto) Generate() error {
	protoFile := "internal/proto/sentencepiece_model.proto"
	outFile := "internal/proto/sentencepiece_model.binpb"

	// Check if the .proto file exists
	if _, err := os.Stat(protoFile); os.IsNotExist(err) {
		return fmt.Errorf("proto file not found: %s", protoFile)
	}

	return sh.RunV("protoc",
		"--proto_path=internal/proto",
		"--descriptor_set_out="+outFile,
		"sentencepiece_model.proto",
	)
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs quick validation (vet, lint, short tests).
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

// Coverage generates a coverage report.
func Coverage() error {
	st.Deps(Init)
	if err := sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}
