package wireclient

import (
	"strconv"

	"github.com/flux-framework/pmi-go/pkg/pmi"
)

// Client drives one PMI-1 wire session. It satisfies pmi.WireClient.
type Client struct {
	conn  *Conn
	rank  int
	size  int
	debug int
}

// CreateFD mirrors the original pmi_simple_client_create_fd: it
// interprets the three launcher-provided environment strings and, only if
// all three parse, returns a usable Client. A missing or malformed
// PMI_FD/PMI_RANK/PMI_SIZE is not an error here, just a signal that the
// wire backend is not available (the factory falls through to the next
// backend), so CreateFD returns (nil, nil) rather than an error in that
// case.
func CreateFD(fdEnv, rankEnv, sizeEnv string, debug int) (*Client, error) {
	if fdEnv == "" || rankEnv == "" || sizeEnv == "" {
		return nil, nil
	}
	fd, err := strconv.Atoi(fdEnv)
	if err != nil {
		return nil, nil
	}
	rank, err := strconv.Atoi(rankEnv)
	if err != nil {
		return nil, nil
	}
	size, err := strconv.Atoi(sizeEnv)
	if err != nil {
		return nil, nil
	}
	conn, err := dial(fd)
	if err != nil {
		return nil, nil
	}
	return &Client{conn: conn, rank: rank, size: size, debug: debug}, nil
}

func (c *Client) Rank() int { return c.rank }
func (c *Client) Size() int { return c.size }

// Init performs the protocol handshake: send cmd=init with this client's
// supported version, expect cmd=response_to_init with rc=0.
func (c *Client) Init() pmi.Status {
	if err := c.conn.send("init",
		[2]string{"pmi_version", "1"},
		[2]string{"pmi_subversion", "1"}); err != nil {
		return pmi.Fail
	}
	resp, err := c.conn.recv()
	if err != nil || resp.cmd != "response_to_init" {
		return pmi.Fail
	}
	rc, ok := resp.rc()
	if !ok || rc != 0 {
		return pmi.Fail
	}
	return pmi.Success
}

// MyName fetches this rank's KVS namespace name into buf.
func (c *Client) MyName(buf []byte) pmi.Status {
	if err := c.conn.send("get_my_kvsname"); err != nil {
		return pmi.Fail
	}
	resp, err := c.conn.recv()
	if err != nil || resp.cmd != "my_kvsname" {
		return pmi.Fail
	}
	name, ok := resp.get("kvsname")
	if !ok {
		return pmi.Fail
	}
	if len(buf) == 0 {
		return pmi.Fail
	}
	if len(name) > len(buf)-1 {
		name = name[:len(buf)-1]
	}
	n := copy(buf, name)
	buf[n] = 0
	return pmi.Success
}

func (c *Client) Put(kvsname, key, value string) pmi.Status {
	if err := c.conn.send("put",
		[2]string{"kvsname", kvsname},
		[2]string{"key", key},
		[2]string{"value", value}); err != nil {
		return pmi.Fail
	}
	resp, err := c.conn.recv()
	if err != nil || resp.cmd != "put_result" {
		return pmi.Fail
	}
	rc, ok := resp.rc()
	if !ok || rc != 0 {
		return pmi.Fail
	}
	return pmi.Success
}

func (c *Client) Get(kvsname, key string, buf []byte) pmi.Status {
	if err := c.conn.send("get",
		[2]string{"kvsname", kvsname},
		[2]string{"key", key}); err != nil {
		return pmi.Fail
	}
	resp, err := c.conn.recv()
	if err != nil || resp.cmd != "get_result" {
		return pmi.Fail
	}
	rc, ok := resp.rc()
	if !ok || rc != 0 {
		return pmi.Fail
	}
	value, ok := resp.get("value")
	if !ok {
		return pmi.Fail
	}
	if len(buf) == 0 {
		return pmi.Fail
	}
	if len(value) > len(buf)-1 {
		value = value[:len(buf)-1]
	}
	n := copy(buf, value)
	buf[n] = 0
	return pmi.Success
}

func (c *Client) Barrier() pmi.Status {
	if err := c.conn.send("barrier_in"); err != nil {
		return pmi.Fail
	}
	resp, err := c.conn.recv()
	if err != nil || resp.cmd != "barrier_out" {
		return pmi.Fail
	}
	return pmi.Success
}

func (c *Client) Finalize() pmi.Status {
	if err := c.conn.send("finalize"); err != nil {
		return pmi.Fail
	}
	resp, err := c.conn.recv()
	if err != nil || resp.cmd != "finalize_ack" {
		return pmi.Fail
	}
	return pmi.Success
}

func (c *Client) Destroy() {
	c.conn.Close()
}
