package workflow

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-component-service/internal/http/middleware"
)

// ServePath is where the serve endpoint is mounted.
const ServePath = "/api/inngest"

// HeaderSignature carries the request signature on calls from Inngest. The
// SDK verifies it against the signing key outside dev mode.
const HeaderSignature = "X-Inngest-Signature"

// Handler returns the SDK serve handler: GET introspection, PUT sync and
// POST function invocation, with signature checks done by the SDK.
func (c *Client) Handler() http.Handler { return c.sdk.Serve() }

// Register mounts the serve handler on r at ServePath.
func (c *Client) Register(r gin.IRoutes) {
	h := gin.WrapH(c.Handler())
	serve := func(ctx *gin.Context) {
		middleware.LoggerFrom(ctx).Debug().
			Str("app_id", c.appID).
			Str("mode", c.Mode()).
			Bool("has_signing_key", c.signingKey != "").
			Bool("signed", ctx.GetHeader(HeaderSignature) != "").
			Msg("workflow_request")
		h(ctx)
	}
	r.GET(ServePath, serve)
	r.PUT(ServePath, serve)
	r.POST(ServePath, serve)
}
