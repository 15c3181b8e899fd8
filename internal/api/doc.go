// Package api contains the HTTP handlers, request/response models, and error
// mapping for the public REST surface: WeChat login, video analysis
// submission, and score history. Handlers stay thin; they decode and validate
// input, call a service, and translate errors to safe HTTP responses.
package api
