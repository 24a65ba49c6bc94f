package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
)

var updatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "telegram_updates_total",
		Help: "How many telegram updates with a text message were processed, partitioned by command.",
	},
	[]string{"command"},
)

// Collectors returns the Prometheus metrics of the bot.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{updatesTotal}
}

// commandLabel limits the label values to the known commands.
func commandLabel(cmd string) string {
	switch cmd {
	case "/start", "/balance", "/add", "/categories", "/help":
		return cmd
	}
	return "other"
}
