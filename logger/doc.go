/*
Package logger provides logging functionality to a switchback app by defining the required behavior in [Logger]
and providing an implementation of it with [SwitchbackLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, [SwitchbackLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*SwitchbackLogger.Warn], [*SwitchbackLogger.Error], and [*SwitchbackLogger.Fatal] produce messages.

# SwitchbackLogger

Log messages emitted by [SwitchbackLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [ERROR] switchback/dispatch/dispatch.go:88 'handler not resolvable' log_context: "{"data":{"handler":"Users.lua"}}"

The log context is a JSON-encoded [*LogContext].
It carries data inessential to the message proper,
such as the unit name and roots searched when a handler could not be resolved.

# SentryLogger

When SENTRY_DSN is set, [NewLogger] wraps the [SwitchbackLogger] in a [SentryLogger],
which additionally ships any error set on a [LogContext] at WARN and above to Sentry.
*/
package logger
