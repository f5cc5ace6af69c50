package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"text/template"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/sirupsen/logrus"

	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/nicholas-fedor/tagwatch/pkg/notifications/templates"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// LocalLog is a logrus logger tagged as internal to the notification subsystem.
var LocalLog = logrus.WithField("notify", "no")

// errEmptyMessage indicates the template rendered nothing.
var errEmptyMessage = errors.New("notification template rendered an empty message")

// router defines the interface for sending Shoutrrr notifications.
// It abstracts the underlying service implementation.
type router interface {
	Send(message string, params *shoutrrrTypes.Params) []error
}

// shoutrrrTypeNotifier implements the Notifier interface for Shoutrrr services.
type shoutrrrTypeNotifier struct {
	Urls     []string
	Router   router
	template *template.Template
	params   *shoutrrrTypes.Params
	data     StaticData
	policy   Policy
	manifest string
}

// GetScheme extracts the scheme part of a Shoutrrr URL.
// It returns "invalid" if no scheme is found.
func GetScheme(url string) string {
	schemeEnd := strings.Index(url, ":")
	if schemeEnd <= 0 {
		return "invalid"
	}

	return url[:schemeEnd]
}

// GetNames returns a list of notification service names derived from URLs.
func (n *shoutrrrTypeNotifier) GetNames() []string {
	names := make([]string, len(n.Urls))
	for i, u := range n.Urls {
		names[i] = GetScheme(u)
	}

	return names
}

// GetURLs returns the list of URLs for configured notification services.
func (n *shoutrrrTypeNotifier) GetURLs() []string {
	return n.Urls
}

// createNotifier initializes a Shoutrrr notifier for the given service URLs.
//
// The template string may name a common template or hold a custom one; a template that fails
// to parse falls back to the default. Shoutrrr's own logger writes to stdout when requested,
// otherwise to logrus at trace level.
//
// Parameters:
//   - urls: Shoutrrr service URLs.
//   - tplString: Template name or body.
//   - data: Static template data.
//   - stdout: Whether Shoutrrr logs go to stdout.
//   - policy: Verdict classes to send.
//
// Returns:
//   - *shoutrrrTypeNotifier: Configured notifier.
//   - error: Non-nil if a service URL is invalid.
func createNotifier(
	urls []string,
	tplString string,
	data StaticData,
	stdout bool,
	policy Policy,
) (*shoutrrrTypeNotifier, error) {
	tpl, err := getShoutrrrTemplate(tplString)
	if err != nil {
		logrus.Errorf(
			"Could not use configured notification template: %s. Using default template",
			err,
		)

		tpl, _ = getShoutrrrTemplate("")
	}

	var logger shoutrrrTypes.StdLogger
	if stdout {
		logger = log.New(os.Stdout, ``, 0)
	} else {
		logger = log.New(logrus.StandardLogger().WriterLevel(logrus.TraceLevel), "Shoutrrr: ", 0)
	}

	router, err := shoutrrr.NewSender(logger, urls...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shoutrrr notifications: %w", err)
	}

	params := &shoutrrrTypes.Params{}
	if data.Title != "" {
		params.SetTitle(data.Title)
	}

	if policy == nil {
		policy = DefaultPolicy()
	}

	return &shoutrrrTypeNotifier{
		Urls:     urls,
		Router:   router,
		template: tpl,
		data:     data,
		params:   params,
		policy:   policy,
	}, nil
}

// Notify sends a message for verdict if the policy selects its class.
//
// Parameters:
//   - verdict: Service verdict.
func (n *shoutrrrTypeNotifier) Notify(verdict types.VerdictReport) {
	clog := LocalLog.WithFields(logrus.Fields{
		"service": verdict.Service(),
		"class":   verdict.Class(),
	})

	if !n.policy.Allows(verdict.Class()) {
		clog.Debug("Notification policy skips verdict class")

		return
	}

	n.send(Data{StaticData: n.data, Manifest: n.manifestName(), Verdict: verdict}, clog)
}

// NotifyFatal sends a diagnostic for a manifest that could not be read.
// Fatal diagnostics bypass the policy.
//
// Parameters:
//   - manifest: Manifest path.
//   - err: Failure cause.
func (n *shoutrrrTypeNotifier) NotifyFatal(manifest string, err error) {
	clog := LocalLog.WithField("manifest", manifest)

	n.send(Data{StaticData: n.data, Manifest: manifest, Verdict: fatalVerdict{err: err}}, clog)
}

func (n *shoutrrrTypeNotifier) manifestName() string {
	if n.manifest == "" {
		return notApplicable
	}

	return n.manifest
}

// send renders data and delivers it to every service, logging failures per service.
func (n *shoutrrrTypeNotifier) send(data Data, clog *logrus.Entry) {
	msg, err := n.buildMessage(data)
	if err != nil {
		clog.WithError(err).Error("Failed to render notification")

		return
	}

	if len(n.Urls) == 0 {
		clog.WithField("message", msg).Debug("No notification services configured, dropping message")

		return
	}

	errs := n.Router.Send(msg, n.params)

	for i, err := range errs {
		if err == nil {
			continue
		}

		fields := logrus.Fields{"index": i}
		if i < len(n.Urls) {
			fields["scheme"] = GetScheme(n.Urls[i])
			fields["url"] = sanitizeURLForLogging(n.Urls[i])
		}

		clog.WithFields(fields).WithError(err).Error("Failed to send shoutrrr notification")
	}

	clog.WithField("services", len(n.Urls)).Debug("Sent notification")
}

// buildMessage constructs a notification message from the provided data using the configured template.
func (n *shoutrrrTypeNotifier) buildMessage(data Data) (string, error) {
	var body bytes.Buffer

	if err := n.template.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute notification template: %w", err)
	}

	msg := strings.TrimSpace(body.String())
	if msg == "" {
		return "", errEmptyMessage
	}

	return msg, nil
}

// getShoutrrrTemplate retrieves or generates a template for Shoutrrr notifications.
// It uses a provided template string or common template name, falling back to the default.
func getShoutrrrTemplate(tplString string) (*template.Template, error) {
	tplBase := template.New("").Funcs(templates.Funcs)

	if builtin, found := commonTemplates[tplString]; found {
		logrus.WithField(`template`, tplString).Debug(`Using common template`)
		tplString = builtin
	}

	if tplString == "" {
		return template.Must(tplBase.Parse(commonTemplates[`default`])), nil
	}

	tpl, err := tplBase.Parse(tplString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification template string: %w", err)
	}

	return tpl, nil
}

// sanitizeURLForLogging strips credentials and query parameters from a service URL.
func sanitizeURLForLogging(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return GetScheme(rawURL) + "://[redacted]"
	}

	parsed.User = nil
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return parsed.Redacted()
}
