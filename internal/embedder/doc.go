// Package embedder fronts a remote Ollama-compatible model server exposing
// POST /api/embed, POST /api/chat, and GET /api/tags. It never surfaces
// transport failures to its callers: embed calls degrade to a zero vector,
// chat calls degrade to a fixed apology string, and every failure marks
// the client unhealthy for the health cache.
package embedder
