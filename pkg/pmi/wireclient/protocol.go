// Package wireclient implements the historical MPICH PMI-1 "simple" wire
// protocol: newline-terminated, space-separated key=val ASCII records
// exchanged over a file descriptor inherited from the launcher. It is the
// concrete collaborator behind pkg/pmi/wire.
package wireclient

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// maxLine bounds a single wire record. The real protocol's records are
// small (a kvsname, a key, a value, a handful of digits); this is a
// generous ceiling against a misbehaving peer, not a protocol limit.
const maxLine = 64 * 1024

// Conn is the minimal transport this client needs: a blocking,
// line-oriented read/write pair over an inherited file descriptor.
type Conn struct {
	f *os.File
	r *bufio.Reader
}

// dial wraps fd (already open and connected to the launcher) as a Conn.
// The descriptor is owned by the returned Conn from this point on: Close
// closes it.
func dial(fd int) (*Conn, error) {
	f := os.NewFile(uintptr(fd), "pmi-wire")
	if f == nil {
		return nil, fmt.Errorf("wireclient: invalid fd %d", fd)
	}
	return &Conn{f: f, r: bufio.NewReaderSize(f, 4096)}, nil
}

func (c *Conn) Close() error {
	return c.f.Close()
}

// record is a decoded PMI-1 wire line: an initial cmd= token followed by
// zero or more key=val pairs, looked up by key (the order they appeared
// on the wire is not kept).
type record struct {
	cmd    string
	fields map[string]string
}

func (r record) get(key string) (string, bool) {
	v, ok := r.fields[key]
	return v, ok
}

func (r record) rc() (int, bool) {
	v, ok := r.fields["rc"]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// send writes a record as "cmd=<cmd> k1=v1 k2=v2\n" in the field order
// given.
func (c *Conn) send(cmd string, fields ...[2]string) error {
	var b strings.Builder
	b.WriteString("cmd=")
	b.WriteString(cmd)
	for _, kv := range fields {
		b.WriteByte(' ')
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(kv[1])
	}
	b.WriteByte('\n')
	_, err := c.f.WriteString(b.String())
	return err
}

// recv reads one newline-terminated record and decodes its key=val pairs.
func (c *Conn) recv() (record, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return record{}, err
	}
	if len(line) > maxLine {
		return record{}, fmt.Errorf("wireclient: record exceeds %d bytes", maxLine)
	}
	line = strings.TrimRight(line, "\r\n")
	fields := make(map[string]string)
	var cmd string
	for _, tok := range strings.Fields(line) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		if k == "cmd" {
			cmd = v
			continue
		}
		fields[k] = v
	}
	return record{cmd: cmd, fields: fields}, nil
}
