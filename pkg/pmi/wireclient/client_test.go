package wireclient

import (
	"bufio"
	"io"
	"os"
	"testing"

	"github.com/flux-framework/pmi-go/pkg/pmi"
)

func TestCreateFDReturnsNilWithoutErrorWhenEnvAbsent(t *testing.T) {
	cli, err := CreateFD("", "", "", 0)
	if err != nil {
		t.Fatalf("CreateFD() error = %v, want nil (wire simply unavailable)", err)
	}
	if cli != nil {
		t.Fatal("CreateFD() returned a non-nil client with no launcher environment")
	}
}

func TestCreateFDReturnsNilOnMalformedRank(t *testing.T) {
	cli, err := CreateFD("3", "not-a-number", "4", 0)
	if err != nil {
		t.Fatalf("CreateFD() error = %v, want nil", err)
	}
	if cli != nil {
		t.Fatal("CreateFD() returned a non-nil client for a malformed PMI_RANK")
	}
}

func TestClientInitSuccess(t *testing.T) {
	clientRead, serverWrite, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	serverRead, clientWrite, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	conn := &Conn{f: clientWrite, r: bufio.NewReader(clientRead)}
	c := &Client{conn: conn, rank: 0, size: 1}

	go func() {
		buf := make([]byte, 512)
		serverRead.Read(buf)
		io.WriteString(serverWrite, "cmd=response_to_init rc=0\n")
	}()

	if status := c.Init(); status != pmi.Success {
		t.Fatalf("Init() = %s, want SUCCESS", status)
	}
}

func TestClientGetFillsBuffer(t *testing.T) {
	clientRead, serverWrite, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	serverRead, clientWrite, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	conn := &Conn{f: clientWrite, r: bufio.NewReader(clientRead)}
	c := &Client{conn: conn}

	go func() {
		buf := make([]byte, 512)
		serverRead.Read(buf)
		io.WriteString(serverWrite, "cmd=get_result rc=0 value=42\n")
	}()

	out := make([]byte, 16)
	if status := c.Get("kvs0", "size", out); status != pmi.Success {
		t.Fatalf("Get() = %s, want SUCCESS", status)
	}
	if got := cstr(out); got != "42" {
		t.Errorf("buffer = %q, want 42", got)
	}
}

func cstr(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
