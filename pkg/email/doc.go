// Package email renders and delivers transactional mail.
//
// Production delivery goes through Postmark (github.com/mrz1836/postmark);
// in development DevSender logs the message and can drop the HTML into a
// directory. Bodies are templ components from the templates subpackage,
// rendered with Render.
package email
