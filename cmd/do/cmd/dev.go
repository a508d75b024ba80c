package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Run the server under air with hot reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev()
		},
	}
}

func runDev() error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go build -o ./tmp/main ./cmd/server",
		"-build.bin", "./tmp/main",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,data,_examples",
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,sql,yaml",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
	}

	env := os.Environ()
	env = append(env, "PORT=8090", "APP_ENV=development")

	return syscall.Exec(airPath, airArgs, env)
}
