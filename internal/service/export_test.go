package service

// GenerateOTP exposes generateOTP to the external test package.
var GenerateOTP = generateOTP
