package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout = 10 * time.Second

	// maxBodyScan bounds how much of the response body the keyword check
	// reads, so a huge or endless body cannot pin a worker.
	maxBodyScan = 256 * 1024
)

var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,zh-CN;q=0.8",
}

// HTTPProber probes targets with plain HTTP(S) GET requests.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber builds a prober with a shared client. The cookie jar keeps
// redirect chains that set session cookies working the way a browser would.
func NewHTTPProber() *HTTPProber {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		jar = nil
	}
	return &HTTPProber{
		client: &http.Client{Jar: jar},
	}
}

// Probe issues one GET request and reduces the outcome to a Result. The total
// wall time is capped at the target timeout regardless of server behavior.
func (p *HTTPProber) Probe(ctx context.Context, target Target) Result {
	timeout := target.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	secure := isHTTPS(target.URL)
	result := Result{
		TLS:     TLSNotApplicable,
		Keyword: KeywordNotApplicable,
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result.Timestamp = start

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.URL, nil)
	if err != nil {
		result.LatencyMS = time.Since(start).Milliseconds()
		result.Reason = "invalid url: " + err.Error()
		if secure {
			result.TLS = TLSDown
		}
		return result
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Reason = classifyError(err)
		if secure {
			result.TLS = TLSDown
		}
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if secure {
		result.TLS = TLSUp
	}

	keywordOK := true
	if target.Keyword != "" {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyScan))
		if containsFold(string(body), target.Keyword) {
			result.Keyword = KeywordMatch
		} else {
			result.Keyword = KeywordMiss
			keywordOK = false
		}
	}

	statusOK := resp.StatusCode >= 200 && resp.StatusCode < 400
	result.Up = statusOK && keywordOK && (!secure || result.TLS == TLSUp)
	if !statusOK {
		result.Reason = "unexpected status " + resp.Status
	}
	return result
}

func isHTTPS(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(raw), "https:")
	}
	return strings.EqualFold(u.Scheme, "https")
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// classifyError maps transport failures to compact reasons for the probe log.
func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timeout"
	}
	if isCertificateError(err) {
		return "tls certificate error: " + err.Error()
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns lookup failed: " + dnsErr.Name
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "connection failed"
	}
	return err.Error()
}

func isCertificateError(err error) bool {
	var (
		verifyErr  *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr)
}
