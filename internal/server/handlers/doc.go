// Package handlers provides the blog, health and JSON helper handlers served
// by fsblog over HTTP and CGI.
package handlers
