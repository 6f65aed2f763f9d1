// Package disqus is a goldmark extension that places a Disqus comment thread
// container on pages carrying the ::disqus directive.
//
// The build-wide shortname is validated once, before any page is parsed. The
// thread identifier is taken from page front matter, then from the build
// configuration, and finally from the text of the page's first heading.
package disqus
