package main

// General API documentation for swaggo. Regenerate internal/apidocs with
// `swag init -g cmd/scoringd/docs.go -o internal/apidocs`.
//
// @title           scoringd API
// @version         1.0
// @description     HTTP API that scores CSV payloads with a regression model artifact.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
