package pmi

import "testing"

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{Success, "SUCCESS"},
		{Init, "ERR_INIT"},
		{Fail, "FAIL"},
		{Status(999), "FAIL"},
	}
	for _, c := range cases {
		if got := c.status.String(); got != c.want {
			t.Errorf("Status(%d).String() = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestStatusOK(t *testing.T) {
	if !Success.OK() {
		t.Error("Success.OK() = false, want true")
	}
	if Fail.OK() {
		t.Error("Fail.OK() = true, want false")
	}
	if Init.OK() {
		t.Error("Init.OK() = true, want false")
	}
}
