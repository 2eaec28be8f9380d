// Package llm holds the wire types shared by the relay server and its clients.
package llm
