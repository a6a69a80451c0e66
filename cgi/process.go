/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package cgi

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	liberr "github.com/nabbar/webserv/errors"
	"github.com/nabbar/webserv/fd"
)

const (
	ErrPipe = liberr.MinPkgCGI + iota
	ErrFork
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgCGI, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrPipe:
		return "cgi: pipe creation failed"
	case ErrFork:
		return "cgi: failed to start script"
	}
	return liberr.NullMessage
}

// TransferMode is how a prepared CGI response's body is framed once
// the child's header block has been parsed.
type TransferMode uint8

const (
	Unknown TransferMode = iota
	Chunked
	FullBuffer
)

// Process is a running CGI child: the parent-side, non-blocking ends
// of its stdin and stdout pipes, wrapped the same way every other
// descriptor in the engine is.
type Process struct {
	cmd    *exec.Cmd
	Stdin  *fd.Writable
	Stdout *fd.Readable
	pid    int
}

// Start forks scriptPath (argv[0] is its basename per CGI/1.1),
// chdir'd into its own directory, with env as its full environment,
// and wires its stdin/stdout through two pipes whose parent ends are
// returned non-blocking and ready for poller registration.
func Start(scriptPath string, env []string, maxOutput int) (*Process, error) {
	inR, inW, err := os.Pipe()
	if err != nil {
		return nil, liberr.New(uint16(ErrPipe), message(ErrPipe), err)
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		_ = inR.Close()
		_ = inW.Close()
		return nil, liberr.New(uint16(ErrPipe), message(ErrPipe), err)
	}

	cmd := exec.Command(scriptPath)
	cmd.Args = []string{filepath.Base(scriptPath)}
	cmd.Dir = filepath.Dir(scriptPath)
	cmd.Env = env
	cmd.Stdin = inR
	cmd.Stdout = outW
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		_ = inR.Close()
		_ = inW.Close()
		_ = outR.Close()
		_ = outW.Close()
		return nil, liberr.New(uint16(ErrFork), message(ErrFork), err)
	}

	_ = inR.Close()
	_ = outW.Close()

	_ = fd.SetNonBlocking(int(inW.Fd()))
	_ = fd.SetNonBlocking(int(outR.Fd()))

	return &Process{
		cmd:    cmd,
		Stdin:  fd.NewWritable(int(inW.Fd())),
		Stdout: fd.NewReadable(int(outR.Fd()), maxOutput),
		pid:    cmd.Process.Pid,
	}, nil
}

// Pid returns the child's process id.
func (p *Process) Pid() int { return p.pid }

// CloseStdin closes the write end of the child's stdin, signalling
// EOF to the script once the full request body has been relayed.
func (p *Process) CloseStdin() error { return p.Stdin.Close() }

// Kill sends SIGKILL to the child's whole process group and reaps it,
// used on CGI timeout.
func (p *Process) Kill() {
	if p.cmd.Process != nil {
		_ = syscall.Kill(-p.pid, syscall.SIGKILL)
	}
	_ = p.Stdin.Close()
	_ = p.Stdout.Close()
	go func() { _ = p.cmd.Wait() }()
}

// Wait blocks until the child exits, then reaps it.
func (p *Process) Wait() error {
	return p.cmd.Wait()
}
