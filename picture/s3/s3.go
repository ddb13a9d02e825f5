package s3

// Placeholder for an S3 backed picture.Store implementation.
//
// Intent: a durable backend for generated images using AWS S3 (or compatible
// APIs) implementing the picture.Store interface, with picture ids mapped to
// object keys under a per-conversation prefix. This file intentionally
// remains a stub so that deployments can supply credentials / client wiring
// without pulling an AWS dependency into minimal builds. If you implement
// this, keep the dependency surface narrow and make the configuration
// (bucket, prefix, ACL, encryption) explicit via a small Config struct.
