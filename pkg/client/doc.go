// Package client is a small RESP client for respkv.
//
// A Client owns one TCP connection and is not safe for concurrent use.
// Every call sends one request and reads exactly one reply.
//
//	c, err := client.Dial(ctx, "127.0.0.1:6379")
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	if err := c.Set(ctx, "greeting", []byte("hello"), time.Minute); err != nil {
//		return err
//	}
//	v, ok, err := c.Get(ctx, "greeting")
package client
