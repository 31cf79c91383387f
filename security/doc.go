// Package security provides secret sources for the Reddit credentials: the
// process environment, static maps, dotenv files and ordered chains of those.
package security
