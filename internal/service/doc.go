// Package service contains the application services that sit between the HTTP
// handlers and the stores: account login and profile management, and score
// persistence and reporting. Each service depends on store interfaces so
// tests can substitute in-memory fakes.
package service
