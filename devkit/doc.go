// Package devkit provides test doubles for exercising token exchanges without
// a live authorization server.
package devkit
