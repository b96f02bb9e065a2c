package maincmd

import "github.com/caarlos0/env/v6"

// Config carries the process-environment-driven options the run command
// reads at startup, the way a mainer-based command consults its
// environment instead of growing a bespoke flag for every knob.
type Config struct {
	// InputFile is the source file the run command compiles and executes.
	InputFile string `env:"MADJIT_INPUT" envDefault:"input.txt"`

	// DisableJIT skips the JIT Eval phase, running only the interpreter.
	DisableJIT bool `env:"MADJIT_NO_JIT"`

	// StackSize overrides the interpreter's evaluation stack capacity.
	StackSize int `env:"MADJIT_STACK_SIZE" envDefault:"10240"`

	// Verbose also prints the bytecode disassembly for the compiled
	// program, not just the phase status lines.
	Verbose bool `env:"MADJIT_VERBOSE" envDefault:"true"`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
