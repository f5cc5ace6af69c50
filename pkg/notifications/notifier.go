package notifications

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// NewNotifier creates and returns a new Notifier, using global configuration.
//
// Parameters:
//   - c: Command holding the notification flags.
//   - manifest: Manifest path named in verdict messages.
//
// Returns:
//   - types.Notifier: Configured notifier.
func NewNotifier(c *cobra.Command, manifest string) types.Notifier {
	flag := c.PersistentFlags()

	stdout, _ := flag.GetBool("notification-log-stdout")
	tplString, _ := flag.GetString("notification-template")
	urls, _ := flag.GetStringArray("notification-url")
	classes, _ := flag.GetStringSlice("notify-on")

	clog := logrus.WithField("notify_on", classes)

	policy, err := ParsePolicy(classes)
	if err != nil {
		clog.WithError(err).Fatal("Invalid notification policy")
	}

	data := GetTemplateData(c)

	sanitized := make([]string, len(urls))
	for i, u := range urls {
		sanitized[i] = sanitizeURLForLogging(u)
	}

	clog.WithFields(logrus.Fields{
		"urls":     sanitized,
		"template": tplString,
		"stdout":   stdout,
		"hostname": data.Host,
		"title":    data.Title,
		"policy":   policy.String(),
	}).Debug("Creating notifier with configuration")

	notifier, err := createNotifier(urls, tplString, data, stdout, policy)
	if err != nil {
		clog.WithError(err).Fatal("Failed to initialize notifications")
	}

	notifier.manifest = manifest

	return notifier
}

// GetTitle formats the title based on the passed hostname and tag.
func GetTitle(hostname string, tag string) string {
	titleBuilder := strings.Builder{}
	if tag != "" {
		titleBuilder.WriteRune('[')
		titleBuilder.WriteString(tag)
		titleBuilder.WriteRune(']')
		titleBuilder.WriteRune(' ')
	}

	titleBuilder.WriteString("tagwatch")

	if hostname != "" {
		titleBuilder.WriteString(" on ")
		titleBuilder.WriteString(hostname)
	}

	return titleBuilder.String()
}

// GetTemplateData populates the static notification data from flags and environment.
func GetTemplateData(c *cobra.Command) StaticData {
	flag := c.PersistentFlags()

	hostname, _ := flag.GetString("notifications-hostname")
	clog := logrus.WithField("hostname_flag", hostname)

	if hostname == "" {
		hostname, _ = os.Hostname()
		clog.WithField("hostname", hostname).Debug("Using system hostname")
	}

	title := ""

	if skip, _ := flag.GetBool("notification-skip-title"); !skip {
		tag, _ := flag.GetString("notification-title-tag")
		title = GetTitle(hostname, tag)
	}

	clog.WithFields(logrus.Fields{
		"hostname": hostname,
		"title":    title,
	}).Debug("Populated template data")

	return StaticData{
		Host:  hostname,
		Title: title,
	}
}
