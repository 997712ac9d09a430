package main

import (
	"context"
	"crypto/ed25519"
	cryptorand "crypto/rand"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/attempt"
	"github.com/MrEthical07/goGate/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		sessions    = flag.Int("sessions", 100000, "number of sessions to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (decide + request)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		orgShare    = flag.Int("org-share", 80, "percentage of seeded sessions with an active organization")
	)
	flag.Parse()

	if *sessions <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, concurrency, and ops must be > 0")
		os.Exit(2)
	}
	if *orgShare < 0 || *orgShare > 100 {
		fmt.Fprintln(os.Stderr, "org-share must be within [0, 100]")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	pub, priv, err := ed25519.GenerateKey(cryptorand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen failed: %v\n", err)
		os.Exit(1)
	}

	cfg := goGate.DefaultConfig()
	cfg.Session.PublicKey = pub
	cfg.Session.PrivateKey = priv
	cfg.Session.UseActiveOrgStore = true

	engine, err := goGate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	codec, err := session.NewTokenCodec(session.TokenConfig{
		TTL:        cfg.Session.TokenTTL,
		PrivateKey: priv,
		PublicKey:  pub,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "codec build failed: %v\n", err)
		os.Exit(1)
	}
	orgs := session.NewActiveOrgStore(client, cfg.Session.RedisPrefix)

	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	states, cookies := seedSessions(ctx, codec, orgs, *sessions, *orgShare)
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	decideStats := runDecidePhase(engine, states, *ops, *concurrency)
	requestStats := runRequestPhase(ctx, engine, cookies, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("decide", decideStats)
	printStats("request", requestStats)
	printSnapshot(engine.MetricsSnapshot())
}

// seedSessions mints one session per slot. Every org-share-th session keeps
// its organization in the active-org store instead of the token claim, so the
// request phase also exercises the Redis fallback path.
func seedSessions(ctx context.Context, codec *session.TokenCodec, orgs *session.ActiveOrgStore, n, orgShare int) ([]session.State, []string) {
	states := make([]session.State, n)
	cookies := make([]string, n)

	for i := 0; i < n; i++ {
		userID := fmt.Sprintf("u-%d", i)
		sessionID := fmt.Sprintf("s-%d", i)
		org := ""
		if i%100 < orgShare {
			org = fmt.Sprintf("org-%d", i%977)
		}

		states[i] = session.State{
			Authenticated:      true,
			UserID:             userID,
			SessionID:          sessionID,
			ActiveOrganization: org,
		}

		tokenOrg := org
		if org != "" && i%5 == 0 {
			tokenOrg = ""
			if err := orgs.SetActive(ctx, sessionID, org, 24*time.Hour); err != nil {
				fmt.Fprintf(os.Stderr, "seed org failed: %v\n", err)
				os.Exit(1)
			}
		}

		token, err := codec.Issue(userID, sessionID, tokenOrg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed token failed: %v\n", err)
			os.Exit(1)
		}
		cookies[i] = token
	}

	return states, cookies
}

var phasePaths = []string{
	"/",
	"/settings",
	"/org/acme/dashboard",
	"/api/org/acme/members",
	"/sign-in",
	"/onboarding",
	"/terms",
}

func runDecidePhase(engine *goGate.Engine, states []session.State, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				state := states[r.Intn(len(states))]
				path := phasePaths[r.Intn(len(phasePaths))]

				t0 := time.Now()
				_ = engine.Decide(path, state, attempt.Marker{})
				d := time.Since(t0)

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, 0)
}

func runRequestPhase(ctx context.Context, engine *goGate.Engine, cookies []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				path := phasePaths[r.Intn(len(phasePaths))]
				req := httptest.NewRequest(http.MethodGet, "http://app.test"+path, nil)
				req.Header.Set("Cookie", "session="+cookies[r.Intn(len(cookies))])

				t0 := time.Now()
				decision := engine.DecideRequest(ctx, req)
				d := time.Since(t0)
				if decision.Kind != goGate.DecisionAllow && decision.Kind != goGate.DecisionRedirect {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func printSnapshot(snap goGate.MetricsSnapshot) {
	fmt.Println("---- engine metrics ----")
	ids := make([]goGate.MetricID, 0, len(snap.Counters))
	for id := range snap.Counters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if snap.Counters[id] == 0 {
			continue
		}
		fmt.Printf("%-28s %d\n", id, snap.Counters[id])
	}
	if hist, ok := snap.Histograms[goGate.MetricDecideLatency]; ok {
		fmt.Printf("decide latency buckets (us):   %v\n", hist)
	}
}
