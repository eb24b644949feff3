// Package landing holds the product copy shown on the landing screen of
// both front ends.
package landing

import (
	"strings"

	"github.com/common-nighthawk/go-figure"
)

const (
	AppName  = "vid2blog"
	Headline = "Transform Tutorial Videos into Beautiful Blog Posts"
	Tagline  = "Stop wasting time taking notes while watching tutorials. Vid2Blog automatically extracts key insights, " +
		"code snippets, and important concepts from your videos and publishes them directly to Hashnode."
)

type Item struct {
	Title string
	Text  string
}

var Features = []Item{
	{"Upload Your Video", "Simply upload your tutorial video. Our AI handles the rest."},
	{"AI Processing", "Our AI extracts key concepts, code snippets, and important notes automatically."},
	{"Publish to Hashnode", "Automatically formatted and published to your Hashnode blog in seconds."},
}

var Steps = []Item{
	{"Add Your Hashnode PAT", "Connect your Hashnode account by adding your Personal Access Token once."},
	{"Upload Your Video", "Upload your tutorial video. Our AI starts processing immediately."},
	{"Relax & Publish", "Your blog post is automatically created and published to your Hashnode blog."},
}

// Banner renders the application name as ASCII art, without trailing
// blank lines.
func Banner() string {
	return strings.TrimRight(figure.NewFigure(AppName, "cybermedium", true).String(), "\n ")
}
