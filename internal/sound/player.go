package sound

import (
	"context"
	"errors"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

var errNoPlayer = errors.New("no player configured")

// Process is a running ambience loop.
type Process interface {
	Stop() error
}

// Player plays catalog sounds with an external command. Every call returns
// immediately; playback runs in the background and failures are only logged.
type Player struct {
	argv   []string
	bell   io.Writer
	logger *log.Logger

	run   func(argv []string) error
	start func(argv []string) (Process, error)

	mu      sync.Mutex
	ambient Process
	wg      sync.WaitGroup
}

// NewPlayer builds a player from a command line such as "mpv --no-video".
// The placeholder {volume} is replaced by the volume in percent. bell, when
// non-nil, receives a terminal bell if an alarm cannot be played.
func NewPlayer(command string, bell io.Writer, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Player{
		argv:   strings.Fields(command),
		bell:   bell,
		logger: logger,
		run:    runCommand,
		start:  startCommand,
	}
}

func (p *Player) command(url string, volume float64) []string {
	if len(p.argv) == 0 {
		return nil
	}
	vol := strconv.Itoa(int(volume * 100))
	out := make([]string, 0, len(p.argv)+1)
	for _, a := range p.argv {
		out = append(out, strings.ReplaceAll(a, "{volume}", vol))
	}
	return append(out, url)
}

// Alarm plays the alarm once. Unknown ids play nothing. If playback fails
// the terminal bell is tried once.
func (p *Player) Alarm(id string, volume float64) {
	url, ok := AlarmURL(id)
	if !ok {
		return
	}
	argv := p.command(url, volume)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		var err error
		if argv == nil {
			err = errNoPlayer
		} else {
			err = p.run(argv)
		}
		if err != nil {
			p.logger.Printf("play alarm %s: %v", id, err)
			p.ringBell()
		}
	}()
}

func (p *Player) ringBell() {
	if p.bell == nil {
		return
	}
	if _, err := io.WriteString(p.bell, "\a"); err != nil {
		p.logger.Printf("ring bell: %v", err)
	}
}

// Ambience starts or stops the background loop. Starting replaces any loop
// already playing.
func (p *Player) Ambience(id string, volume float64, playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ambient != nil {
		if err := p.ambient.Stop(); err != nil {
			p.logger.Printf("stop ambience: %v", err)
		}
		p.ambient = nil
	}
	if !playing {
		return
	}
	url, ok := AmbienceURL(id)
	if !ok {
		return
	}
	argv := p.command(url, volume)
	if argv == nil {
		return
	}
	proc, err := p.start(argv)
	if err != nil {
		p.logger.Printf("start ambience %s: %v", id, err)
		return
	}
	p.ambient = proc
}

// Close stops ambience and waits for pending alarms.
func (p *Player) Close() {
	p.Ambience("", 0, false)
	p.wg.Wait()
}

func runCommand(argv []string) error {
	return exec.Command(argv[0], argv[1:]...).Run()
}

// loop replays a command until stopped or until one run fails.
type loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startCommand(argv []string) (Process, error) {
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(l.done)
		for ctx.Err() == nil {
			if err := exec.CommandContext(ctx, argv[0], argv[1:]...).Run(); err != nil {
				return
			}
		}
	}()
	return l, nil
}

func (l *loop) Stop() error {
	l.cancel()
	<-l.done
	return nil
}
