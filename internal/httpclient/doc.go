// Package httpclient provides HTTP client utilities for the burstfire load testing tool.
//
// # Request Building
//
// Use [NewRequestBuilder] to validate the target and headers once and build a
// fresh request per attempt:
//
//	builder, err := httpclient.NewRequestBuilder(cfg)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx)
//
// # HTTP Client
//
// [NewClient] creates a client with a private transport. burstfire builds one
// per worker so every worker reuses its own keep-alive connections:
//
//	client := httpclient.NewClient(10 * time.Second)
//	resp, err := client.Do(req)
//	httpclient.DrainAndClose(resp)
package httpclient
