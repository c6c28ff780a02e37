package apds9306

// Register map (datasheet chapter "Register Description")
const (
	regMainCtrl       byte = 0x00
	regMeasRate       byte = 0x04
	regGain           byte = 0x05
	regPartID         byte = 0x06
	regMainStatus     byte = 0x07
	regClearData0     byte = 0x0A // clear channel LSB, followed by mid and MSB
	regData0          byte = 0x0D // ALS channel LSB, followed by mid and MSB
	regIntCfg         byte = 0x19
	regIntPersistence byte = 0x1A
	regThresholdUp0   byte = 0x21 // upper threshold LSB
	regThresholdUp1   byte = 0x22
	regThresholdUp2   byte = 0x23
	regThresholdLow0  byte = 0x24 // lower threshold LSB
	regThresholdLow1  byte = 0x25
	regThresholdLow2  byte = 0x26
	regThresholdVar   byte = 0x27
)

// MAIN_CTRL bits
const (
	mainCtrlSWReset byte = 1 << 4
	mainCtrlEnable  byte = 1 << 1
)

// MAIN_STATUS bits
const (
	statusPowerOn   byte = 1 << 5
	statusInterrupt byte = 1 << 4
	statusDataReady byte = 1 << 3
)

// INT_CFG bits
const (
	intCfgSourceShift = 4
	intCfgModeShift   = 3
	intCfgEnableShift = 2
)

// INT_PERSISTENCE keeps the sample count in the upper nibble
const (
	persistenceShift = 4
	persistenceMax   = 15
)
