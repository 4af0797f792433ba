// Package discovery finds home dashboard servers on the local network over mDNS.
//
// Servers advertise the "_http._tcp" service type. An entry counts as a
// dashboard server when its TXT record carries app=smarthome (or
// app=homedash), or when its instance name looks like one. Entries without
// an address are skipped; IPv4 is preferred over IPv6.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	servers, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, s := range servers {
//	    fmt.Println(s.BaseURL())
//	}
//
// # Network Requirements
//
// Multicast must be available on the interface and UDP port 5353 must be
// reachable. The server must be on the same network segment.
package discovery
