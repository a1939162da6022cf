package player

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/omxconductor/omxconductor/constant"
)

// Invocation is a serialized omxplayer command line.
type Invocation struct {
	// Executable is the program to run.
	Executable string `json:"executable"`
	// Args is the argv handed to the process, resource unquoted.
	Args []string `json:"args"`
	// Pipe is the named pipe bound to the process' standard input.
	Pipe string `json:"pipe"`
	// Command is the shell rendering, with stdin redirected from Pipe.
	Command string `json:"command"`
}

// String returns the shell rendering of the invocation.
func (i Invocation) String() string {
	return i.Command
}

// PipeName returns the named pipe used by a session on the given layer.
func PipeName(layer int) string {
	return "omxpipe" + strconv.Itoa(layer)
}

type argument struct {
	value  string
	quoted bool
}

// BuildInvocation serializes settings and a resolved resource into an
// omxplayer invocation. An empty pipeDir keeps the pipe relative to the
// working directory.
func BuildInvocation(resource string, s Settings, pipeDir string) Invocation {
	var list []argument
	add := func(values ...string) {
		for _, v := range values {
			list = append(list, argument{value: v})
		}
	}

	list = append(list, argument{value: resource, quoted: true})
	add("-o", string(s.AudioOutput))
	if !s.NoBackgroundColor {
		add("-b" + FormatColor(s.BackgroundColor))
	}
	add("--dbus_name", s.DBusName)
	if s.Loop {
		add("--loop")
	}
	add("--layer", strconv.Itoa(s.Layer))
	add("--vol", strconv.Itoa(int(math.Round(LinearToMillibels(s.Volume)))))
	add("--orientation", strconv.Itoa(s.Orientation))
	if s.DisableKeys {
		add("--no-keys")
	}
	if s.DisableOnScreenDisplay {
		add("--no-osd")
	}
	if s.Subtitles != "" {
		add("--subtitles")
		list = append(list, argument{value: s.Subtitles, quoted: true})
	}
	for _, extra := range s.ExtraArgs {
		if extra = strings.TrimSpace(extra); extra != "" {
			add(extra)
		}
	}

	pipe := PipeName(s.Layer)
	if pipeDir != "" {
		pipe = filepath.Join(pipeDir, pipe)
	}

	args := make([]string, len(list))
	rendered := make([]string, 0, len(list)+3)
	rendered = append(rendered, constant.Executable)
	for i, a := range list {
		args[i] = a.value
		if a.quoted {
			rendered = append(rendered, fmt.Sprintf("%q", a.value))
		} else {
			rendered = append(rendered, a.value)
		}
	}
	rendered = append(rendered, "<", pipe)

	return Invocation{
		Executable: constant.Executable,
		Args:       args,
		Pipe:       pipe,
		Command:    strings.Join(rendered, " "),
	}
}
