package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trainkit/trainkit/internal/api"
	"github.com/trainkit/trainkit/pkg/logging"
	"github.com/trainkit/trainkit/pkg/metrics"
	"github.com/trainkit/trainkit/pkg/shutdown"
	"github.com/trainkit/trainkit/pkg/status"
	"github.com/trainkit/trainkit/pkg/sysinfo"
)

var (
	listenAddr string
	jsonLogs   bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the status API the host UI polls",
	Long: `Starts the loopback HTTP API exposing job status, interrupt/skip,
checkpoint and image listings, memory reports, and Prometheus metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from config or 127.0.0.1:7870)")
	serveCmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")
}

func runServe(cmd *cobra.Command, args []string) error {
	if listenAddr == "" {
		listenAddr = viper.GetString("listen_addr")
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:7870"
	}

	log := logging.NewLogger(logging.INFO, jsonLogs)

	st := status.New()
	monitor := sysinfo.NewMonitor()
	collector := metrics.NewCollector()

	handler := api.NewHandler(st, monitor, collector, GetModelsRoot(), log)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sd := shutdown.New(15 * time.Second)
	sd.Register(shutdown.StopHTTPServer(server, "status API"))

	errChan := make(chan error, 1)
	go func() {
		log.Info("status API listening", map[string]interface{}{
			"addr": listenAddr, "models_path": GetModelsRoot(),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	go func() {
		sd.Wait()
		sd.Shutdown()
		errChan <- nil
	}()

	if err := <-errChan; err != nil {
		return fmt.Errorf("status API failed: %w", err)
	}

	log.Info("status API stopped")
	return nil
}
