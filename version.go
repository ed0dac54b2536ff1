package main

// Version is reported in logs and as a Pushgateway grouping label
const Version = "v0.3.0"
