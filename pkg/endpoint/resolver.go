// Package endpoint resolves the image API base URL from the host a client is
// served under. The result is computed once and injected into the client.
package endpoint

import (
	"errors"
	"net"
	"sort"
	"strings"
)

const (
	// ProductionURL is the hosted image builder.
	ProductionURL = "https://imagebuilder.onrender.com"
	// LocalURL is the development server started from the api directory.
	LocalURL = "http://localhost:5000"
)

// ErrEmptyEndpoint is returned by Join when no endpoint segment is supplied.
var ErrEmptyEndpoint = errors.New("endpoint: endpoint is empty")

// HostTable maps known page hostnames to API base URLs. Unknown hostnames
// resolve to Fallback.
type HostTable struct {
	Hosts    map[string]string
	Fallback string
}

// Default returns the table for the published site: both production
// hostnames share the hosted builder and everything else talks to a local
// server.
func Default() HostTable {
	return HostTable{
		Hosts: map[string]string{
			"www.darim.me": ProductionURL,
			"darim.me":     ProductionURL,
		},
		Fallback: LocalURL,
	}
}

// Resolve returns the base URL for hostname. Matching ignores case and any
// port suffix.
func (t HostTable) Resolve(hostname string) string {
	hosts := t.Hosts
	if !t.normalized() {
		hosts = make(map[string]string, len(t.Hosts))
		mergeHosts(hosts, t.Hosts)
	}
	if url := strings.TrimSpace(hosts[normalizeHost(hostname)]); url != "" {
		return url
	}
	return strings.TrimSpace(t.Fallback)
}

// With returns a copy of the table with extra host mappings applied. Keys are
// stored normalized; mappings from hosts override the receiver's.
func (t HostTable) With(hosts map[string]string) HostTable {
	out := HostTable{
		Hosts:    make(map[string]string, len(t.Hosts)+len(hosts)),
		Fallback: t.Fallback,
	}
	mergeHosts(out.Hosts, t.Hosts)
	mergeHosts(out.Hosts, hosts)
	return out
}

// mergeHosts copies src into dst under normalized keys. Keys that normalize
// to the same host are applied in sorted order, so the last one in byte
// order wins regardless of map iteration.
func mergeHosts(dst, src map[string]string) {
	keys := make([]string, 0, len(src))
	for host := range src {
		if normalizeHost(host) == "" {
			continue
		}
		keys = append(keys, host)
	}
	sort.Strings(keys)
	for _, host := range keys {
		dst[normalizeHost(host)] = src[host]
	}
}

func (t HostTable) normalized() bool {
	for host := range t.Hosts {
		if normalizeHost(host) != host {
			return false
		}
	}
	return true
}

// Join builds "{base}/{endpoint}" without doubling slashes.
func Join(base, endpoint string) (string, error) {
	segment := strings.Trim(strings.TrimSpace(endpoint), "/")
	if segment == "" {
		return "", ErrEmptyEndpoint
	}
	return strings.TrimRight(strings.TrimSpace(base), "/") + "/" + segment, nil
}

func normalizeHost(raw string) string {
	host := strings.ToLower(strings.TrimSpace(raw))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}
