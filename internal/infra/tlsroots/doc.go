// Package tlsroots builds the TLS trust configuration for the API client.
//
// By default the system roots are trusted. A PEM bundle configured with
// tls.ca_file is added on top, for servers behind a private CA.
package tlsroots
