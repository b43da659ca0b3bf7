// Package device implements cgpu's physical-device selector: scoring and
// capability negotiation over a set of enumerated adapters, independent of
// any particular backend's enumeration call.
//
// A backend (hal/vulkan, hal/metal) queries its native API for each
// adapter's properties, features, memory heaps and queue families, and
// hands the result to EvaluateCandidate. Select then picks the
// highest-scoring candidate with no missing requirements, honoring the
// GTL_DEVICE_INDEX_OVERRIDE environment variable.
package device
