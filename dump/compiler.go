package dump

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/logger"
)

// RuntimeModule is the module name generated code imports.
const RuntimeModule = "Statham"

// Compiler is the external compiler front-end.
type Compiler interface {
	// DumpAST returns the combined diagnostic and dump text for files,
	// one (source_file ...) chunk per file in order when compilation succeeds.
	DumpAST(ctx context.Context, files []string, opts DumpOptions) (string, error)
	// EmitModule precompiles the runtime library in libDir into a new
	// temporary directory and returns it.
	EmitModule(ctx context.Context, libDir string) (string, error)
	// Version reports the compiler version and its raw banner.
	Version(ctx context.Context) (*semver.Version, string, error)
}

// DumpOptions are auxiliary settings for one DumpAST call.
type DumpOptions struct {
	// ModuleDir holds a precompiled runtime module to link against.
	ModuleDir string
}

// SwiftcConfig configures the swiftc front-end.
type SwiftcConfig struct {
	// Command is the compiler command line, e.g. "xcrun swiftc".
	Command string
	// SDKCommand prints the SDK path; empty skips -sdk.
	SDKCommand string
}

// Swiftc runs the Swift compiler front-end.
type Swiftc struct {
	argv       []string
	sdkCommand []string
	sdk        string
	log        *zap.SugaredLogger
}

var _ Compiler = (*Swiftc)(nil)

// NewSwiftc splits the configured command lines into argv form.
func NewSwiftc(cfg SwiftcConfig, log *zap.SugaredLogger) (*Swiftc, error) {
	argv, err := shellquote.Split(cfg.Command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid compiler command %q", cfg.Command)
	}
	if len(argv) == 0 {
		return nil, errors.New("compiler command is empty")
	}

	sdkCommand, err := shellquote.Split(cfg.SDKCommand)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid SDK command %q", cfg.SDKCommand)
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Swiftc{
		argv:       argv,
		sdkCommand: sdkCommand,
		log:        log,
	}, nil
}

// ResolveSDK runs the SDK command once and remembers its output. DumpAST
// and EmitModule call it on first use.
func (s *Swiftc) ResolveSDK(ctx context.Context) error {
	if len(s.sdkCommand) == 0 || s.sdk != "" {
		return nil
	}
	out, err := exec.CommandContext(ctx, s.sdkCommand[0], s.sdkCommand[1:]...).Output()
	if err != nil {
		return errors.Wrapf(err, "failed to resolve SDK path with %q", strings.Join(s.sdkCommand, " "))
	}
	s.sdk = strings.TrimSpace(string(out))
	return nil
}

// DumpAST implements Compiler. A non-zero exit status is not an error here:
// diagnostics arrive in the returned text and are classified by Collect.
func (s *Swiftc) DumpAST(ctx context.Context, files []string, opts DumpOptions) (string, error) {
	if err := s.ResolveSDK(ctx); err != nil {
		return "", err
	}
	args := s.dumpArgs(files, opts.ModuleDir)
	if logger.Enabled(logger.OutputCommand) {
		s.log.Debugw("Running compiler",
			logger.FieldCommand, shellquote.Join(append([]string{s.argv[0]}, args...)...),
			"files", len(files))
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", errors.Wrap(ctxErr, "compiler did not finish")
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", errors.Wrapf(err, "failed to run %s", s.argv[0])
		}
		s.log.Debugw("Compiler exited with failure", "exit_code", exitErr.ExitCode())
	}
	if logger.Enabled(logger.OutputDumpText) {
		s.log.Debugw("Compiler output", logger.FieldSize, out.Len(), "text", out.String())
	}
	return out.String(), nil
}

func (s *Swiftc) dumpArgs(files []string, moduleDir string) []string {
	args := append([]string{}, s.argv[1:]...)
	if moduleDir != "" {
		args = append(args,
			"-I", moduleDir,
			"-L", moduleDir,
			"-l"+RuntimeModule,
			"-module-link-name", RuntimeModule)
	}
	if s.sdk != "" {
		args = append(args, "-sdk", s.sdk)
	}
	args = append(args, "-dump-ast")
	return append(args, files...)
}

// EmitModule implements Compiler. It compiles the runtime library sources in libDir/Sources into
// a module under a new temporary directory. The caller removes the
// directory. Any compiler output is treated as failure.
func (s *Swiftc) EmitModule(ctx context.Context, libDir string) (string, error) {
	sources, err := filepath.Glob(filepath.Join(libDir, "Sources", "*.swift"))
	if err != nil {
		return "", errors.Wrapf(err, "invalid library directory %s", libDir)
	}
	if len(sources) == 0 {
		return "", errors.WithHint(
			errors.Newf("no Swift sources in %s", filepath.Join(libDir, "Sources")),
			"point --statham at the library root, e.g. --statham=Pods/Statham")
	}

	if err := s.ResolveSDK(ctx); err != nil {
		return "", err
	}

	tmp, err := os.MkdirTemp("", "jsongen-statham-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create module directory")
	}

	args := append([]string{}, s.argv[1:]...)
	if s.sdk != "" {
		args = append(args, "-sdk", s.sdk)
	}
	args = append(args,
		"-module-name", RuntimeModule,
		"-emit-module-path", filepath.Join(tmp, RuntimeModule+".swiftmodule"),
		"-emit-module")
	args = append(args, sources...)

	s.log.Infow("Compiling runtime module", "dir", libDir, "sources", len(sources))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	cmd.Dir = tmp
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if stderr.Len() > 0 {
		os.RemoveAll(tmp)
		return "", errors.Wrapf(&DiagnosticsError{Chunks: []string{strings.TrimRight(stderr.String(), "\n")}},
			"failed to compile %s", libDir)
	}
	if runErr != nil {
		os.RemoveAll(tmp)
		return "", errors.Wrapf(runErr, "failed to compile %s", libDir)
	}
	return tmp, nil
}

var versionPattern = regexp.MustCompile(`Swift version (\d+(?:\.\d+){0,2})`)

// Version implements Compiler by running the compiler with --version.
func (s *Swiftc) Version(ctx context.Context) (*semver.Version, string, error) {
	args := append(append([]string{}, s.argv[1:]...), "--version")
	out, err := exec.CommandContext(ctx, s.argv[0], args...).CombinedOutput()
	banner := strings.TrimSpace(string(out))
	if err != nil {
		return nil, banner, errors.Wrapf(err, "failed to run %s --version", s.argv[0])
	}
	v, err := ParseVersion(banner)
	return v, banner, err
}

// ParseVersion extracts the version number from a `swiftc --version` banner.
func ParseVersion(banner string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(banner)
	if m == nil {
		return nil, errors.Newf("no Swift version in %q", firstLine(banner))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, errors.Wrapf(err, "invalid Swift version %q", m[1])
	}
	return v, nil
}

// CheckVersion reports whether v satisfies the constraint, e.g. ">= 3.0, < 6.0".
func CheckVersion(v *semver.Version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "invalid version constraint %q", constraint)
	}
	return c.Check(v), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
