// Package domain contains the core types shared by every layer: the scan
// request a front end collects, the result triple every scan operation
// returns, and the normalized report payloads. They carry no infrastructure
// concerns so the call layer, the orchestrator and both front ends can share them.
package domain
