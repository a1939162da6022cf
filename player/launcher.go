package player

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/omxconductor/omxconductor/log"
)

// Exit describes how a player process ended.
type Exit struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Err    error  `json:"-"`
}

// Process is a launched player.
type Process interface {
	// Done delivers exactly one Exit once the process has terminated.
	Done() <-chan Exit
	// Kill terminates the process (and its group where supported).
	Kill() error
}

// Launcher performs pipe setup and process spawn as a single step.
type Launcher interface {
	Launch(inv Invocation) (Process, error)
}

// ExecLauncher runs omxplayer as a child process with stdin bound to the
// session's named pipe.
type ExecLauncher struct{}

// NewExecLauncher returns the launcher used outside tests.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

// Launch creates the pipe if needed, starts the process and reaps it in the
// background.
func (ExecLauncher) Launch(inv Invocation) (Process, error) {
	if err := makeFifo(inv.Pipe); err != nil {
		if !errors.Is(err, os.ErrExist) {
			log.Warnf("create pipe %s: %v", inv.Pipe, err)
		}
	}

	stdin, err := openFifo(inv.Pipe)
	if err != nil {
		return nil, fmt.Errorf("open pipe %s: %w", inv.Pipe, err)
	}

	cmd := exec.Command(inv.Executable, inv.Args...)
	cmd.SysProcAttr = sysProcAttr()

	var stdout, stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("start %s: %w", inv.Executable, err)
	}

	p := &execProcess{
		cmd:  cmd,
		done: make(chan Exit, 1),
	}

	// Background goroutine to reap the process and prevent zombies
	go func() {
		err := cmd.Wait()
		_ = stdin.Close()
		p.done <- Exit{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
		close(p.done)
	}()

	return p, nil
}

type execProcess struct {
	cmd  *exec.Cmd
	done chan Exit
	once sync.Once
	err  error
}

func (p *execProcess) Done() <-chan Exit {
	return p.done
}

func (p *execProcess) Kill() error {
	p.once.Do(func() {
		p.err = killProcess(p.cmd)
	})
	return p.err
}
