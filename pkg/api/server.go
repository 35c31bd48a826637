// Package api provides the REST API server for chord2midi
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/chord2midi/pkg/converter"
	"github.com/james-see/chord2midi/pkg/progression"
	"github.com/james-see/chord2midi/pkg/timeline"
)

// @title Chord2MIDI API
// @version 1.0
// @description API for rendering strummed chord progressions to MIDI
// @host localhost:8080
// @BasePath /api/v1

const maxBodySize = 1 << 20

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: Handler(),
	}
	return srv.ListenAndServe()
}

// Handler returns the router wrapped with CORS handling
func Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
	})
	return c.Handler(NewRouter())
}

// NewRouter creates the gin engine with all routes registered
func NewRouter() *gin.Engine {
	r := gin.Default()
	r.Use(requestID())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.GET("/chords/:symbol", getChord)
		v1.GET("/demo", handleDemo)
		v1.POST("/render", handleRender)
		v1.POST("/events", handleEvents)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chord2midi",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the progression document formats and conversions
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"yaml", "json", "midi"},
		"conversions": converter.GetSupportedConversions(),
	})
}

// chordResponse describes a parsed chord symbol
type chordResponse struct {
	Symbol    string `json:"symbol"`
	Octave    int    `json:"octave"`
	Root      uint8  `json:"root"`
	Intervals []int  `json:"intervals"`
	Note      uint8  `json:"note"`
}

// getChord godoc
// @Summary Parse a chord symbol
// @Description Returns the root, intervals and strummed note of a chord symbol
// @Tags info
// @Produce json
// @Param symbol path string true "Chord symbol, e.g. Am7"
// @Param octave query int false "Octave (default: 4)"
// @Success 200 {object} chordResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chords/{symbol} [get]
func getChord(c *gin.Context) {
	octave := progression.DefaultOctave
	if v := c.Query("octave"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid octave"})
			return
		}
		octave = n
	}

	symbol := c.Param("symbol")
	chord, err := progression.ParseSymbol(symbol, octave)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := chord.Note()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := chordResponse{
		Symbol: symbol,
		Octave: octave,
		Root:   chord.Root(),
		Note:   note,
	}
	for _, iv := range chord.Intervals() {
		resp.Intervals = append(resp.Intervals, int(iv))
	}
	c.JSON(http.StatusOK, resp)
}

// handleDemo godoc
// @Summary Render the demo progression
// @Description Returns a MIDI file of the C - G - F demo progression
// @Tags render
// @Produce audio/midi
// @Success 200 {file} binary
// @Router /api/v1/demo [get]
func handleDemo(c *gin.Context) {
	render(c, progression.Demo())
}

// handleRender godoc
// @Summary Render a progression to MIDI
// @Description Post a progression document (JSON or YAML) and receive a MIDI file
// @Tags render
// @Accept json
// @Accept application/x-yaml
// @Produce audio/midi
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /api/v1/render [post]
func handleRender(c *gin.Context) {
	p, ok := readProgression(c)
	if !ok {
		return
	}
	render(c, p)
}

// eventResponse is a generated event with its absolute position
type eventResponse struct {
	Tick     uint32 `json:"tick"`
	Delta    uint32 `json:"delta"`
	Kind     string `json:"kind"`
	Channel  uint8  `json:"channel"`
	Note     uint8  `json:"note"`
	Velocity uint8  `json:"velocity"`
}

// handleEvents godoc
// @Summary List the events of a progression
// @Description Post a progression document and receive its note events as JSON
// @Tags render
// @Accept json
// @Accept application/x-yaml
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /api/v1/events [post]
func handleEvents(c *gin.Context) {
	p, ok := readProgression(c)
	if !ok {
		return
	}

	events, score, err := converter.New().Events(p)
	if err != nil {
		writeError(c, err)
		return
	}

	ticks := timeline.AbsoluteTimes(score.StartTick, events)
	out := make([]eventResponse, len(events))
	for i, ev := range events {
		out[i] = eventResponse{
			Tick:     ticks[i],
			Delta:    ev.Delta,
			Kind:     ev.Kind.String(),
			Channel:  ev.Channel,
			Note:     ev.Note,
			Velocity: ev.Velocity,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"resolution": score.Resolution,
		"count":      len(out),
		"events":     out,
	})
}

func readProgression(c *gin.Context) (*progression.Progression, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return nil, false
	}

	format := progression.FormatJSON
	switch strings.ToLower(c.ContentType()) {
	case "application/x-yaml", "application/yaml", "text/yaml", "text/x-yaml":
		format = progression.FormatYAML
	}

	p, err := progression.Parse(data, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return p, true
}

func render(c *gin.Context, p *progression.Progression) {
	data, err := converter.New().Render(p)
	if err != nil {
		writeError(c, err)
		return
	}

	outputName := fmt.Sprintf("progression-%s.mid", c.GetString("request_id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, "audio/midi", data)
}

func writeError(c *gin.Context, err error) {
	var oe *timeline.OrderingError
	if errors.As(err, &oe) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         err.Error(),
			"label":         oe.Label,
			"last_abs_time": oe.Last,
			"abs_time":      oe.Target,
			"chord":         oe.Chord,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
