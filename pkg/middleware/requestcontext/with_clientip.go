package requestcontext

import (
	"context"
	"net/netip"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedProxiesIP lists the CIDR ranges of every proxy between the server and the client.
	// The client IP is the last `X-Forwarded-For` entry outside of these ranges.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// TrustedHeader is a header carrying the client IP (e.g. X-Real-IP, CF-Connecting-IP).
	// It takes precedence over `X-Forwarded-For` when it holds a valid IP.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// EnableRejectMalformedRequest returns 403 Forbidden when the request is proxied but the client IP can't be resolved.
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// WithClientIP resolves the client IP, guarding against spoofed `X-Forwarded-For` entries.
// An invalid proxy range fails with errs.InvalidArgument.
func WithClientIP(config WithClientIPConfig) (Option, error) {
	proxies := make([]netip.Prefix, 0, len(config.TrustedProxiesIP))
	for _, cidr := range config.TrustedProxiesIP {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "trusted proxy range %q: %v", cidr, err)
		}
		proxies = append(proxies, prefix.Masked())
	}
	trusted := func(ip netip.Addr) bool {
		return lo.ContainsBy(proxies, func(p netip.Prefix) bool { return p.Contains(ip) })
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		if config.TrustedHeader != "" {
			if ip, err := netip.ParseAddr(c.Get(config.TrustedHeader)); err == nil {
				return withClientIP(ctx, ip.String()), nil
			}
		}

		forwarded := c.IPs()
		if len(forwarded) == 0 {
			return withClientIP(ctx, c.IP()), nil
		}

		if len(proxies) > 0 {
			// closest hop first
			for i := len(forwarded) - 1; i >= 0; i-- {
				ip, err := netip.ParseAddr(forwarded[i])
				if err == nil && !trusted(ip.Unmap()) {
					return withClientIP(ctx, ip.String()), nil
				}
			}
			return withClientIP(ctx, forwarded[0]), nil
		}

		if config.EnableRejectMalformedRequest {
			logger.WarnContext(ctx, "IP Spoofing detected, returning 403 Forbidden",
				slogx.String("event", "requestcontext/ip_spoofing_detected"),
				slogx.String("ip", c.IP()),
				slogx.Any("ips", forwarded),
			)
			return nil, reject(fiber.StatusForbidden, "not allowed to access")
		}
		return withClientIP(ctx, forwarded[0]), nil
	}, nil
}

func withClientIP(ctx context.Context, ip string) context.Context {
	return logger.WithContext(context.WithValue(ctx, clientIPKey{}, ip), slogx.String("clientIP", ip))
}

// GetClientIP returns the IP set by WithClientIP, or an empty string.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
