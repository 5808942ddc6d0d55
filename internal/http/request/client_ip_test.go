package request

import (
	"net/http"
	"testing"
)

func TestClientIPWithoutHeaders(t *testing.T) {
	r := &http.Request{RemoteAddr: "192.168.0.1:4242"}
	if ip := FindClientIP(r); ip != "192.168.0.1" {
		t.Fatalf(`Unexpected result, got: %q`, ip)
	}

	r = &http.Request{RemoteAddr: "192.168.0.1"}
	if ip := FindClientIP(r); ip != "192.168.0.1" {
		t.Fatalf(`Unexpected result, got: %q`, ip)
	}

	r = &http.Request{RemoteAddr: "fe80::14c2:f039:edc7:edc7"}
	if ip := FindClientIP(r); ip != "fe80::14c2:f039:edc7:edc7" {
		t.Fatalf(`Unexpected result, got: %q`, ip)
	}

	r = &http.Request{RemoteAddr: ""}
	if ip := FindClientIP(r); ip != "127.0.0.1" {
		t.Fatalf(`Unexpected result, got: %q`, ip)
	}
}

func TestClientIPWithXFFHeader(t *testing.T) {
	scenarios := map[string]string{
		"":                                     "192.168.0.1",
		"203.0.113.195, 70.41.3.18":            "203.0.113.195",
		"2001:db8:85a3:8d3:1319:8a2e:370:7348": "2001:db8:85a3:8d3:1319:8a2e:370:7348",
		"fe80::14c2:f039:edc7:edc7%eth0":       "fe80::14c2:f039:edc7:edc7",
		"not an ip":                            "192.168.0.1",
	}

	for input, expected := range scenarios {
		headers := http.Header{}
		headers.Set("X-Forwarded-For", input)
		r := &http.Request{RemoteAddr: "192.168.0.1:4242", Header: headers}

		if ip := FindClientIP(r); ip != expected {
			t.Errorf(`Unexpected result for %q, got %q instead of %q`, input, ip, expected)
		}
	}
}

func TestClientIPWithXRealIPHeader(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Real-Ip", "192.168.122.1")
	r := &http.Request{RemoteAddr: "192.168.0.1:4242", Header: headers}

	if ip := FindClientIP(r); ip != "192.168.122.1" {
		t.Fatalf(`Unexpected result, got: %q`, ip)
	}
}
