// Package model contains the records shared by the HTTP, service and
// persistence layers. It has no behavior beyond small value helpers.
package model
