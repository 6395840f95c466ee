package cli

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/meshkit/quadgen/pkg/meshio"
	"github.com/meshkit/quadgen/pkg/render"
)

// serveCommand creates the serve command: a small HTTP server over one
// generated mesh, for quick inspection in a browser.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		showEdges bool
	)

	cmd := &cobra.Command{
		Use:   "serve [mesh.json]",
		Short: "Serve a generated mesh over HTTP",
		Long: `Serve a generated mesh over HTTP.

Endpoints:
  GET /          redirects to /mesh.svg
  GET /mesh.svg  the mesh drawing
  GET /mesh.json the mesh geometry
  GET /mesh.dot  the element adjacency graph
  GET /healthz   liveness probe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args[0], addr, showEdges)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8680", "listen address")
	cmd.Flags().BoolVar(&showEdges, "edges", true, "draw boundary and interior edges in the SVG view")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, input, addr string, showEdges bool) error {
	m, err := meshio.ReadMeshFile(input)
	if err != nil {
		return fmt.Errorf("load mesh %s: %w", input, err)
	}

	jsonData, err := meshio.MarshalMesh(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	svgData := render.MeshSVG(m, render.SVGOptions{ShowEdges: showEdges})
	dotData := []byte(render.ConnectivityDOT(m))

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/mesh.svg", http.StatusFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/mesh.json", serveBytes("application/json", jsonData))
	r.Get("/mesh.svg", serveBytes("image/svg+xml", svgData))
	r.Get("/mesh.dot", serveBytes("text/vnd.graphviz", dotData))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shut the server down when the command context is cancelled (SIGINT).
	go func() {
		<-cmd.Context().Done()
		_ = srv.Close()
	}()

	printInfo("Serving %s on http://%s", input, addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveBytes returns a handler serving fixed bytes with a content type.
func serveBytes(contentType string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}
