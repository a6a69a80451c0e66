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

// Command webserv serves one or more virtual hosts described by an
// nginx-style configuration file through a single-threaded,
// epoll-driven event loop.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/nabbar/webserv/config"
	"github.com/nabbar/webserv/logger"
	loglvl "github.com/nabbar/webserv/logger/level"
	"github.com/nabbar/webserv/session"
	"github.com/nabbar/webserv/webserv"
)

var (
	flagValidate bool
	flagLogLevel string
)

func main() {
	root := &cobra.Command{
		Use:   "webserv [config_path]",
		Short: "A single-process, event-driven HTTP/1.1 origin server",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}

	root.Flags().BoolVar(&flagValidate, "validate", false, "parse and validate the configuration, then exit")
	root.Flags().StringVarP(&flagLogLevel, "log-level", "v", "info", "log level: critical, fatal, error, warning, info, debug")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	path := "default.conf"
	if len(args) > 0 {
		path = args[0]
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	configPath, err := filepath.Abs(expanded)
	if err != nil {
		return err
	}

	log := logger.New()
	log.SetLevel(loglvl.Parse(flagLogLevel))
	_ = log.AddHook(logger.NewStdoutHook(loglvl.InfoLevel))
	_ = log.AddHook(logger.NewStderrHook(loglvl.WarnLevel))

	rule, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if flagValidate {
		log.Info("configuration is valid", logger.Fields{"path": configPath})
		return nil
	}

	store, err := session.NewStore(filepath.Join(filepath.Dir(configPath), "var", "sessions"))
	if err != nil {
		return err
	}
	_ = store.Load(filepath.Join(filepath.Dir(configPath), "var", "sessions", "session_manager.sm"))

	srv, err := webserv.NewServer(rule, store, log)
	if err != nil {
		return err
	}
	defer srv.Cleanup()

	for _, port := range listenPorts(rule) {
		if err := srv.Listen(port); err != nil {
			return err
		}
		log.Info("listening", logger.Fields{"port": port})
	}

	if err := srv.WatchSignals(); err != nil {
		return err
	}

	if err := watchConfigFile(configPath, srv, log); err != nil {
		log.Warning("configuration watch disabled", logger.Fields{"error": err.Error()})
	}

	for !srv.Stopped() {
		if err := srv.RunOnce(); err != nil {
			log.Error("event loop iteration failed", logger.Fields{"error": err.Error()})
			return err
		}
	}

	log.Info("shutting down", nil)
	return nil
}

func loadConfig(path string) (*config.HttpRule, error) {
	block, err := config.ParseFile(path)
	if err != nil {
		return nil, err
	}

	return config.Bind(block)
}

func listenPorts(rule *config.HttpRule) []uint16 {
	seen := make(map[uint16]bool)
	var ports []uint16

	for _, s := range rule.Servers {
		if seen[s.Port] {
			continue
		}
		seen[s.Port] = true
		ports = append(ports, s.Port)
	}

	return ports
}

// watchConfigFile re-parses and re-validates configPath on every
// write, swapping the server's live HttpRule in only if binding
// succeeds; it never touches listening sockets, since a listen
// directive change requires a restart.
func watchConfigFile(configPath string, srv *webserv.Server, log logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify init failed: %w", err)
	}

	if err := watcher.Add(configPath); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				rule, err := loadConfig(configPath)
				if err != nil {
					log.Warning("configuration reload rejected", logger.Fields{"error": err.Error()})
					continue
				}

				srv.SwapRule(rule)
				log.Info("configuration reloaded", logger.Fields{"path": configPath})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warning("configuration watch error", logger.Fields{"error": err.Error()})
			}
		}
	}()

	return nil
}
