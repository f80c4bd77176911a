package cli

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/hupe1980/tinyservice"
	"github.com/hupe1980/tinyservice/config"
	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/engine"
	"github.com/hupe1980/tinyservice/layer/limit"
	"github.com/hupe1980/tinyservice/layer/metrics"
	"github.com/hupe1980/tinyservice/layer/ratelimit"
	"github.com/hupe1980/tinyservice/layer/trace"
	"github.com/hupe1980/tinyservice/logging"
	"github.com/hupe1980/tinyservice/message"
	"github.com/hupe1980/tinyservice/service"
)

type (
	// Request is the request type of every CLI route.
	Request = message.Request[string]

	// Response is the response type of every CLI route.
	Response = message.Response[string]

	// Router is the CLI routing table.
	Router = tinyservice.Router[Request, Response]
)

// handler returns the bare service for a handler kind.
func handler(kind string) (core.Service[Request, Response], error) {
	switch kind {
	case config.HandlerEcho:
		return textHandler(func(s string) string { return s }), nil
	case config.HandlerUpper:
		return textHandler(strings.ToUpper), nil
	case config.HandlerReverse:
		return textHandler(reverse), nil
	case config.HandlerLength:
		length := service.Sync(func(req Request) (int, error) {
			return len([]rune(req.Body)), nil
		})
		return service.NewMapResponse[Request, int, Response](length, func(n int) Response {
			return message.OK(strconv.Itoa(n))
		}), nil
	default:
		return nil, fmt.Errorf("unknown handler %q", kind)
	}
}

func textHandler(fn func(string) string) core.Service[Request, Response] {
	return service.Sync(func(req Request) (Response, error) {
		resp := message.OK(fn(req.Body))
		resp.Head.Extensions = req.Head.Extensions.Clone()
		return resp, nil
	})
}

func reverse(s string) string {
	out := []rune(s)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// BuildRouter composes one service per configured route. Layers are applied
// inside out: handler, prefix/suffix, trace, metrics, rate limit, concurrency
// limit.
func BuildRouter(cfg *config.Config, logger logging.Logger, collector *metrics.Collector) (*Router, error) {
	r := tinyservice.New[Request, Response](func(o *tinyservice.Options) {
		o.Logger = logger
		o.Engine = engine.New(func(o *engine.Options) {
			o.Config.MaxPolls = cfg.Engine.MaxPolls
			o.Logger = logger
		})
	})

	for _, name := range cfg.RouteNames() {
		svc, err := buildRoute(name, cfg.Routes[name], logger, collector)
		if err != nil {
			return nil, err
		}
		if err := r.Register(name, svc); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func buildRoute(name string, rc config.RouteConfig, logger logging.Logger, collector *metrics.Collector) (*service.BoxService[Request, Response], error) {
	h, err := handler(rc.Handler)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", name, err)
	}

	b := service.Ext(h)

	if rc.Prefix != "" {
		prefix := rc.Prefix
		b = b.MapRequest(func(req Request) Request {
			return message.MapRequestBody(req, func(body string) string { return prefix + body })
		})
	}

	if rc.Suffix != "" {
		suffix := rc.Suffix
		b = b.MapResponse(func(resp Response) Response {
			return message.MapResponseBody(resp, func(body string) string { return body + suffix })
		})
	}

	b = b.MapErr(func(err error) error {
		return fmt.Errorf("%s handler: %w", rc.Handler, err)
	})

	if rc.Trace {
		b = b.Layer(trace.Layer[Request, Response](name, func(o *trace.Options) {
			o.Logger = logger
		}))
	}

	if collector != nil {
		b = b.Layer(metrics.Layer[Request, Response](collector, name))
	}

	if rc.RateLimit != nil {
		b = b.Layer(ratelimit.Layer[Request, Response](rate.Limit(rc.RateLimit.RPS), rc.RateLimit.Burst))
	}

	if rc.MaxInFlight > 0 {
		b = b.Layer(limit.Layer[Request, Response](limit.NewSemaphore(rc.MaxInFlight)))
	}

	return b.Box(), nil
}

// describe lists the layers configured for a route.
func describe(rc config.RouteConfig, metricsEnabled bool) []string {
	var layers []string
	if rc.Prefix != "" {
		layers = append(layers, fmt.Sprintf("prefix=%q", rc.Prefix))
	}
	if rc.Suffix != "" {
		layers = append(layers, fmt.Sprintf("suffix=%q", rc.Suffix))
	}
	if rc.Trace {
		layers = append(layers, "trace")
	}
	if metricsEnabled {
		layers = append(layers, "metrics")
	}
	if rc.RateLimit != nil {
		layers = append(layers, fmt.Sprintf("rate_limit=%g/s burst %d", rc.RateLimit.RPS, rc.RateLimit.Burst))
	}
	if rc.MaxInFlight > 0 {
		layers = append(layers, fmt.Sprintf("max_in_flight=%d", rc.MaxInFlight))
	}
	return layers
}
