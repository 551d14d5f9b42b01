// Package gallerycmd holds the portfolio gallery commands: warming lightbox
// renditions and importing markdown items into storage.
package gallerycmd
