// Package main is the entry point of gophilo, a small content management
// system. Pages form a tree resolved by slug path and are rendered through
// stored Go templates; each container a template declares is filled by a
// page contentlet. Entities carry typed attributes inherited along the page
// tree. The web service serves sites by host and exposes a basic auth
// protected admin dashboard and JSON API.
//
// Usage:
//
//	gophilo --config ./etc/ migrate
//	gophilo --config ./etc/ load fixtures.yaml
//	gophilo --config ./etc/ start
package main
