// Package udp implements the network ports over real UDP sockets.
//
//   - [Listener]: unconnected discovery sockets (SO_REUSEADDR and
//     SO_BROADCAST set where the platform supports it)
//   - [RouteResolver]: finds the outbound IPv4 address without sending
//   - [Dialer]: connected streaming sockets
package udp
