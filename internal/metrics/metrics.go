// Package metrics exposes the prometheus counters and histograms every proof
// operation in the credential package updates, and a Start helper that
// serves them over HTTP the way the teacher (drand/drand) runs a metrics
// server alongside its core protocol rather than bolting observability on
// after the fact.
package metrics

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chasep/kvac/internal/log"
)

var (
	// Registry is this module's private prometheus registry. Kept separate
	// from prometheus.DefaultRegisterer so a library caller embedding this
	// module can register it into their own registry instead.
	Registry = prometheus.NewRegistry()

	// ProofsCreated counts ProveIssuance/ProveValidCredential/ProveEncryption
	// calls, labeled by proof kind ("issuance", "presentation", "encryption").
	ProofsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kvac_proofs_created_total",
		Help: "Number of NIZK proofs produced, by proof kind.",
	}, []string{"kind"})

	// ProofsVerified counts every VerifyIssuance/VerifyValidCredential/
	// VerifyEncryption call, by kind, split by outcome ("ok" for a nil
	// error, "failure" otherwise).
	ProofsVerified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kvac_proofs_verified_total",
		Help: "Number of NIZK proof verifications attempted, by proof kind and outcome.",
	}, []string{"kind", "outcome"})

	// ProveDuration observes wall-clock time spent inside a Prove* call, by
	// kind. A slow prover across many attributes is a sizing signal for the
	// operator choosing NUMBER_OF_ATTRIBUTES.
	ProveDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kvac_prove_duration_seconds",
		Help:    "Time spent building a NIZK proof, by proof kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// VerifyDuration is ProveDuration's verifier-side counterpart.
	VerifyDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kvac_verify_duration_seconds",
		Help:    "Time spent verifying a NIZK proof, by proof kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// CredentialsIssued counts amac.Issue calls.
	CredentialsIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kvac_credentials_issued_total",
		Help: "Number of aMACs issued.",
	})

	registerOnce sync.Once
)

const (
	OutcomeOK      = "ok"
	OutcomeFailure = "failure"
)

// Proof kind labels, used by the credential package's Prove*/Verify*
// functions and by this package's tests.
const (
	KindIssuance     = "issuance"
	KindPresentation = "presentation"
	KindEncryption   = "encryption"
)

func register(l log.Logger) {
	collectorsList := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ProofsCreated,
		ProofsVerified,
		ProveDuration,
		VerifyDuration,
		CredentialsIssued,
	}
	for _, c := range collectorsList {
		if err := Registry.Register(c); err != nil {
			l.Errorw("metrics: registration failed", "err", err)
			return
		}
	}
}

// ObserveProve records that a Prove* call of the given kind ran for d and
// counts it against ProofsCreated.
func ObserveProve(kind string, d time.Duration) {
	ProofsCreated.WithLabelValues(kind).Inc()
	ProveDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveVerify records that a Verify* call of the given kind ran for d and
// succeeded or failed.
func ObserveVerify(kind string, d time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailure
	}
	ProofsVerified.WithLabelValues(kind, outcome).Inc()
	VerifyDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Start registers every collector exactly once and serves /metrics (and,
// when pprof is non-nil, /debug/pprof/) on bindAddr. bindAddr may be a bare
// port ("9100"), in which case it binds to loopback only.
func Start(logger log.Logger, bindAddr string, pprof http.Handler) (net.Listener, error) {
	registerOnce.Do(func() { register(logger) })

	if !strings.Contains(bindAddr, ":") {
		bindAddr = "127.0.0.1:" + bindAddr
	}
	l, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	logger.Infow("metrics listener started", "addr", l.Addr())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))
	if pprof != nil {
		mux.Handle("/debug/pprof/", pprof)
	}

	s := &http.Server{Addr: l.Addr().String(), ReadHeaderTimeout: 3 * time.Second, Handler: mux}
	go func() {
		logger.Warnw("metrics listener finished", "err", s.Serve(l))
	}()
	return l, nil
}
