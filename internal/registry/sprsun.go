package registry

// Register groups polled from the SPRSUN controller. Each group maps to
// one contiguous bulk read.
const (
	GroupClock   = "clock"
	GroupSensors = "sensors"
	GroupStatus  = "status"
	GroupDevice  = "device"
	GroupBLDC    = "bldc"
	GroupSGReady = "sg_ready"
	GroupHours   = "hours"
	GroupPower   = "power"
	GroupRecords = "records"
)

// CatalogVersion identifies the current revision of the built-in table.
// Bump it whenever an address, width or encoding changes so baseline
// diffs pick the change up.
const CatalogVersion = "2025.08"

// SPRSUN returns the built-in catalog for the SPRSUN CGK/Premium
// heat pump controller (PC1000 series). Addresses are zero-based; the
// vendor table lists each register as address + 40001.
//
// The DC fan RPM feedbacks are deliberately crossed relative to older
// revisions of the vendor table: fan 1 reports at 202 and fan 2 at 200.
// This matches captures from real units where the documented order was
// swapped.
func SPRSUN() *Catalog {
	return New(CatalogVersion, []Entry{
		// Controller clock, 40183+
		{Name: "year", Address: 182, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupClock, Min: 0, Max: 99},
		{Name: "month", Address: 183, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupClock, Min: 0, Max: 12},
		{Name: "day", Address: 184, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupClock, Min: 0, Max: 31},
		{Name: "hour", Address: 185, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupClock, Min: 0, Max: 23},
		{Name: "minute", Address: 186, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupClock, Min: 0, Max: 59},
		{Name: "week", Address: 187, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupClock, Min: 1, Max: 7},

		// Temperature and pressure sensors, 40189+
		{Name: "inlet_temp", Address: 188, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSensors, Min: -60, Max: 150},
		{Name: "outlet_temp", Address: 189, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSensors, Min: -60, Max: 150},
		{Name: "ambient_temp", Address: 190, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSensors, Min: -60, Max: 60},
		{Name: "discharge_temp", Address: 191, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSensors, Min: -60, Max: 150},
		{Name: "suction_temp", Address: 192, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSensors, Min: -60, Max: 150},
		{Name: "discharge_pressure", Address: 193, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "bar", DeviceClass: "pressure", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 60},
		{Name: "suction_pressure", Address: 194, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "bar", DeviceClass: "pressure", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 60},
		{Name: "hotwater_temp", Address: 195, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSensors, Min: -60, Max: 150},
		{Name: "coil_temp", Address: 196, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSensors, Min: -60, Max: 150},
		{Name: "fan_output", Address: 197, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "%", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 110},
		{Name: "pump_output", Address: 198, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "%", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 110},
		{Name: "dc_fan1_output", Address: 199, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "%", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 110},
		{Name: "dc_fan2_rpm", Address: 200, Words: 1, Encoding: ScaledInt16, Scale: 1, Unit: "rpm", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 3000},
		{Name: "dc_fan2_output", Address: 201, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "%", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 110},
		{Name: "dc_fan1_rpm", Address: 202, Words: 1, Encoding: ScaledInt16, Scale: 1, Unit: "rpm", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 3000},
		{Name: "required_capacity", Address: 203, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "%", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 110},
		{Name: "actual_capacity", Address: 204, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "%", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 110},
		{Name: "actual_speed", Address: 205, Words: 1, Encoding: ScaledInt16, Scale: 1, Unit: "rps", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 200},
		{Name: "eev_opening", Address: 207, Words: 1, Encoding: ScaledInt16, Scale: 1, Unit: "steps", StateClass: "measurement", Group: GroupSensors, Min: 0, Max: 500},
		{Name: "comp_status", Address: 209, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupSensors},
		{Name: "comp_protection", Address: 210, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupSensors},
		{Name: "suction_superheat", Address: 211, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "K", StateClass: "measurement", Group: GroupSensors, Min: -20, Max: 60},

		// Run mode and unit status, 40216+
		{Name: "unit_run_mode", Address: 215, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupStatus},
		{Name: "unit_status", Address: 217, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupStatus},

		// Heater type, firmware version and unit type, 40324+
		{Name: "heater_type", Address: 323, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupDevice, Min: 0, Max: 4},
		{Name: "version_x", Address: 325, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupDevice},
		{Name: "version_y", Address: 326, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupDevice},
		{Name: "version_z", Address: 327, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupDevice},
		{Name: "unit_type_a", Address: 328, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupDevice},
		{Name: "unit_type_b", Address: 329, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupDevice},

		// BLDC compressor drive, 40334+
		{Name: "bldc_power", Address: 333, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "W", DeviceClass: "power", StateClass: "measurement", Group: GroupBLDC, Min: 0, Max: 30000},
		{Name: "bldc_var", Address: 334, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupBLDC},
		{Name: "bldc_current", Address: 335, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "A", DeviceClass: "current", StateClass: "measurement", Group: GroupBLDC, Min: 0, Max: 100},

		// SG Ready mode and setpoint readbacks, 40356+
		{Name: "sg_mode", Address: 355, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: GroupSGReady, Min: 0, Max: 3},
		{Name: "sg_mode_change_holdtime", Address: 356, Words: 1, Encoding: ScaledInt16, Scale: 1, Unit: "s", Group: GroupSGReady, Min: 0, Max: 600},
		{Name: "sg_mode_w_tank_setp", Address: 357, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSGReady, Min: 56, Max: 70},
		{Name: "sg_cool_setp_diff_1", Address: 358, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSGReady, Min: 0, Max: 10},
		{Name: "sg_heat_setp_diff_1", Address: 359, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSGReady, Min: 0, Max: 10},
		{Name: "sg_w_tank_setp_diff_1", Address: 360, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSGReady, Min: 0, Max: 10},
		{Name: "sg_cool_setp_diff_2", Address: 361, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSGReady, Min: 0, Max: 10},
		{Name: "sg_heat_setp_diff_2", Address: 362, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSGReady, Min: 0, Max: 10},
		{Name: "sg_w_tank_setp_diff_2", Address: 363, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "°C", DeviceClass: "temperature", StateClass: "measurement", Group: GroupSGReady, Min: 0, Max: 10},

		// Working hour counters, 40365+, each spanning two registers
		{Name: "working_hours_pump", Address: 364, Words: 2, Encoding: UInt32BE, Unit: "h", StateClass: "total_increasing", Group: GroupHours, Min: 0, Max: 1000000},
		{Name: "working_hours_comp", Address: 366, Words: 2, Encoding: UInt32BE, Unit: "h", StateClass: "total_increasing", Group: GroupHours, Min: 0, Max: 1000000},
		{Name: "working_hours_fan", Address: 368, Words: 2, Encoding: UInt32BE, Unit: "h", StateClass: "total_increasing", Group: GroupHours, Min: 0, Max: 1000000},
		{Name: "working_hours_3way_valve", Address: 370, Words: 2, Encoding: UInt32BE, Unit: "h", StateClass: "total_increasing", Group: GroupHours, Min: 0, Max: 1000000},

		// Water flow, electric meter and unit power, 40373+
		{Name: "water_flow", Address: 372, Words: 2, Encoding: Float32BE, Unit: "L/h", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 20000},
		{Name: "phase_voltage_a", Address: 376, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "V", DeviceClass: "voltage", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 500},
		{Name: "phase_voltage_b", Address: 377, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "V", DeviceClass: "voltage", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 500},
		{Name: "phase_voltage_c", Address: 378, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "V", DeviceClass: "voltage", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 500},
		{Name: "phase_current_a", Address: 379, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "A", DeviceClass: "current", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 100},
		{Name: "phase_current_b", Address: 380, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "A", DeviceClass: "current", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 100},
		{Name: "phase_current_c", Address: 381, Words: 1, Encoding: ScaledInt16, Scale: 10, Unit: "A", DeviceClass: "current", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 100},
		{Name: "power_w", Address: 382, Words: 2, Encoding: Float32BE, Unit: "W", DeviceClass: "power", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 30000},
		{Name: "total_power_consumption", Address: 384, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupPower, Min: 0, Max: 10000000},
		{Name: "unit_power", Address: 387, Words: 2, Encoding: Float32BE, Unit: "W", DeviceClass: "power", StateClass: "measurement", Group: GroupPower, Min: 0, Max: 30000},
		{Name: "unit_cop", Address: 389, Words: 1, Encoding: ScaledInt16, Scale: 10, StateClass: "measurement", Group: GroupPower, Min: 0, Max: 10},

		// Power consumption records, 40402+, each spanning two registers
		{Name: "record_power_1", Address: 401, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupRecords, Min: 0, Max: 10000000},
		{Name: "record_power_2", Address: 403, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupRecords, Min: 0, Max: 10000000},
		{Name: "record_power_3", Address: 405, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupRecords, Min: 0, Max: 10000000},
		{Name: "record_power_4", Address: 407, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupRecords, Min: 0, Max: 10000000},
		{Name: "record_power_5", Address: 409, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupRecords, Min: 0, Max: 10000000},
		{Name: "record_power_6", Address: 411, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupRecords, Min: 0, Max: 10000000},
		{Name: "record_power_7", Address: 413, Words: 2, Encoding: Float32BE, Unit: "kWh", DeviceClass: "energy", StateClass: "total_increasing", Group: GroupRecords, Min: 0, Max: 10000000},
	})
}
