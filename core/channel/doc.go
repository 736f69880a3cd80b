// Package channel defines the Channel data model shared by every protocol
// component: the ordered pair of half-channels (client, service) through
// which one invocation's messages flow, plus the random ID and bearer-token
// generation used to address and authorize them.
package channel
