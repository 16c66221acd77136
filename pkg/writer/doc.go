// Package writer persists a generation result as a deterministic
// directory tree. Each kustomization manifest lands at
// <out>/<cluster>/<template>/<name>.yaml, the source repository
// manifest and controller tuning patches under
// <out>/<cluster>/flux-system/, and an aggregating kustomization.yaml
// at the cluster root lists every generated resource with sorted
// paths. Identical input produces byte-identical output.
package writer
