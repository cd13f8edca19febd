// Package memory applies a container-aware soft memory limit and reports
// process memory for the health endpoint.
//
// In Kubernetes, expose the container limit through the Downward API:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//
// ConfigureLimit then sets the runtime limit to MEMORY_RATIO (default 0.9)
// of it, so the garbage collector works harder before the kernel OOM killer
// steps in. An explicit GOMEMLIMIT always wins.
package memory
