package metrics

import (
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Expvar metrics
	DiscordMessageReceived = expvar.NewInt("discord_message_received")
	DiscordMessageSent     = expvar.NewInt("discord_message_sent")
	GuessesGraded          = expvar.NewInt("guesses_graded")
	GuessesOnCooldown      = expvar.NewInt("guesses_on_cooldown")
	RiddlesPosted          = expvar.NewInt("riddles_posted")
	RiddlesSolved          = expvar.NewInt("riddles_solved")
	RiddlesExpired         = expvar.NewInt("riddles_expired")
	BankExhausted          = expvar.NewInt("bank_exhausted")
	PersistenceErrors      = expvar.NewInt("persistence_errors")

	// Prometheus metrics with labels
	CommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddlebot_command_total",
			Help: "Total number of bot commands invoked by command name",
		},
		[]string{"command"},
	)

	CommandErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddlebot_command_errors",
			Help: "Total number of bot command errors by command name",
		},
		[]string{"command"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riddlebot_command_duration_seconds",
			Help:    "Duration of bot command execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	GuessOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddlebot_guess_outcomes_total",
			Help: "Graded guess outcomes (correct, incorrect, cooldown)",
		},
		[]string{"outcome"},
	)

	TicketEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddlebot_ticket_events_total",
			Help: "Ticket workflow events (open, claim, close)",
		},
		[]string{"event"},
	)

	WordGameResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddlebot_wordgame_results_total",
			Help: "Word game results by status (started, won, lost)",
		},
		[]string{"status"},
	)
)

type Server struct {
	*http.Server
}

// SetupServer builds the HTTP side server: a static liveness string on "/",
// "/healthz" for monitors, Prometheus on "/metrics", and pprof. It shares no
// state with the bot handlers.
func SetupServer(port int) *Server {

	// pprof is setup by importing the net/http/pprof package
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	DiscordMessageReceived.Set(0)
	DiscordMessageSent.Set(0)
	GuessesGraded.Set(0)
	GuessesOnCooldown.Set(0)
	RiddlesPosted.Set(0)
	RiddlesSolved.Set(0)
	RiddlesExpired.Set(0)
	BankExhausted.Set(0)
	PersistenceErrors.Set(0)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewExpvarCollector(
			map[string]*prometheus.Desc{
				"discord_message_received": prometheus.NewDesc("discord_message_received", "number of discord messages received", nil, nil),
				"discord_message_sent":     prometheus.NewDesc("discord_message_sent", "number of discord messages sent", nil, nil),
				"guesses_graded":           prometheus.NewDesc("guesses_graded", "number of guesses that reached grading", nil, nil),
				"guesses_on_cooldown":      prometheus.NewDesc("guesses_on_cooldown", "number of guesses rejected by the cooldown", nil, nil),
				"riddles_posted":           prometheus.NewDesc("riddles_posted", "number of riddles posted", nil, nil),
				"riddles_solved":           prometheus.NewDesc("riddles_solved", "number of riddles solved", nil, nil),
				"riddles_expired":          prometheus.NewDesc("riddles_expired", "number of riddles expired unsolved", nil, nil),
				"bank_exhausted":           prometheus.NewDesc("bank_exhausted", "number of times the bank ran out of riddles", nil, nil),
				"persistence_errors":       prometheus.NewDesc("persistence_errors", "number of failed document writes", nil, nil),
			},
		),
		CommandTotal,
		CommandErrors,
		CommandDuration,
		GuessOutcomes,
		TicketEvents,
		WordGameResults,
	)

	http.HandleFunc("/", rootHandler)
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	http.HandleFunc("/healthz", healthzHandler)
	return &Server{server}
}

// rootHandler answers external process monitors with a static liveness string.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("riddle bot is alive"))
}

// healthzHandler returns a simple health check response
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) Run() {
	_ = s.ListenAndServe()
}
