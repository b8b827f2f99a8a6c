// Package ws serves Wappo sessions over WebSocket.
//
// Every connection owns its own session controller. The client sends JSON
// commands and receives one JSON message per committed update:
//
//	-> {"type":"move","dir":"up"}
//	-> {"type":"reset"}
//	-> {"type":"load","name":"Level 3"}
//	-> {"type":"next"}
//	<- {"kind":"enemy_moved","enemy":0,"pos":{"row":1,"col":2},"state":{...}}
//	<- {"kind":"error","error":"session: unknown level: \"x\""}
//
// A central Hub tracks the connections. It owns every client's send
// channel, so outgoing messages are delivered from the hub goroutine only,
// and a client that cannot keep up is dropped.
//
// Usage:
//
//	hub := ws.NewHub(ws.Options{Store: store, Logger: logger})
//	go hub.Run(ctx)
//	http.HandleFunc("/ws", hub.ServeWS)
package ws
